package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"decina-service/internal/service/game"
)

// Local terminal client for a single game. Commands:
//
//	d          draw the next deck card onto the discard pile
//	RS RS      pair two cards, e.g. "5H 5S" or "a c q d" split as tokens
//	q          quit
func main() {
	var (
		seed      int64
		tableSize int
	)
	flag.Int64Var(&seed, "seed", 0, "shuffle seed (0 = random)")
	flag.IntVar(&tableSize, "table", game.DefaultTableSize, "cards dealt face-up at start")
	flag.Parse()

	state, err := game.NewState(game.DealConfig{TableSize: tableSize, Seed: seed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot start game: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Decina — pair cards summing to ten. Seed %d.\n", state.Seed())
	printBoard(state)

	scanner := bufio.NewScanner(os.Stdin)
	for state.Status() == game.StatusInProgress {
		fmt.Print("draw (d), pair (RS RS) or quit (q)? ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.EqualFold(line, "q"):
			return
		case strings.EqualFold(line, "d"):
			if err := state.Draw(); err != nil {
				fmt.Println(err)
				continue
			}
		default:
			fields := strings.Fields(line)
			if len(fields) != 2 {
				fmt.Println("enter 'd', 'q', or two card tokens like '5H QS'")
				continue
			}
			a, b, err := game.ParsePair(fields[0], fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := state.Pair(a, b); err != nil {
				fmt.Println(err)
				continue
			}
		}
		printBoard(state)
	}

	switch state.Status() {
	case game.StatusWon:
		fmt.Println("All cards cleared — you win!")
	case game.StatusStuck:
		fmt.Println("No draw and no pair left — stuck. Better luck next deal.")
	}
}

func printBoard(s *game.State) {
	fmt.Printf("\nTable (%d):", s.TableLen())
	for _, card := range s.Table() {
		fmt.Printf(" %s", card)
	}
	fmt.Println()

	fmt.Printf("Deck: %d cards\n", s.DeckLen())

	if top, ok := s.TopDiscard(); ok {
		fmt.Printf("Discard (%d): top %s\n", s.DiscardLen(), top)
	} else {
		fmt.Println("Discard: empty")
	}
	fmt.Printf("Removed: %d cards\n\n", s.RemovedLen())
}
