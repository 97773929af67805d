package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/drillgo-dev/drillgo/pkg/game"
)

// runREPL drives the controller from stdin. Slash commands are local
// to the REPL; everything else goes to HandleCommand verbatim.
func runREPL(ctx context.Context, ctrl *game.Controller) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()
	line.SetCtrlCAborts(true)

	ok, err := login(line, ctrl)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("\nBye.")
		return nil
	}

	rendered := 0
	rendered = render(ctrl, rendered)

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye.")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "/quit", "/exit":
			fmt.Println("Bye.")
			return nil

		case "/exam":
			if err := ctrl.RequestExam(ctx); err != nil {
				printCommandError(err)
			}

		case "/restart":
			ctrl.Restart()
			rendered = 0

		default:
			if err := ctrl.HandleCommand(ctx, input); err != nil {
				printCommandError(err)
			}
		}

		// The intro exchange and restart replace history wholesale.
		if len(ctrl.History()) < rendered {
			rendered = 0
		}
		rendered = render(ctrl, rendered)
	}
}

func login(line *liner.State, ctrl *game.Controller) (bool, error) {
	for {
		name, err := line.Prompt("Your name: ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read name: %w", err)
		}

		switch err := ctrl.Login(name); {
		case err == nil:
			return true, nil
		case errors.Is(err, game.ErrEmptyIdentifier):
			fmt.Println("A name is required.")
		default:
			return false, err
		}
	}
}

// render prints history entries beyond the already-rendered count and
// returns the new count.
func render(ctrl *game.Controller, rendered int) int {
	history := ctrl.History()
	for _, msg := range history[rendered:] {
		switch msg.Role {
		case game.RoleUser:
			fmt.Printf("you> %s\n", msg.Body)
		case game.RoleTeacher:
			fmt.Printf("teacher> %s\n", msg.Body)
		default:
			fmt.Printf("*** %s\n", msg.Body)
		}
		for _, qa := range msg.QuickActions {
			fmt.Printf("    [%s: type %q]\n", qa.Label, qa.Token)
		}
	}
	return len(history)
}

func printCommandError(err error) {
	switch {
	case errors.Is(err, game.ErrBusy):
		fmt.Println("*** Hold on, the teacher is still talking.")
	case errors.Is(err, game.ErrNotInTraining):
		fmt.Println("*** Exams only happen during training. Pick 1 first.")
	default:
		fmt.Printf("*** %v\n", err)
	}
}
