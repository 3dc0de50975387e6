package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const replHelp = `Example requests:
  "Find files containing report"
  "Organize my desktop"
  "Check the status of example.com"
  "Research artificial intelligence trends"
  "Sort my photos"
  "Clean up my contacts"
  "Schedule a backup for tomorrow"
  "What did we discuss about domains last week?"

Available agents:
  research    - web search and information gathering
  memory      - remembers past conversations and context
  file        - file organization, search, and management
  automation  - task automation and tool creation
  phone       - mobile data organization
  domain      - website and DNS management

Tips:
  - be specific about what you want to accomplish
  - past conversations are remembered and searchable
  - one request can involve several agents`

// runREPL is the interactive loop. help, status, and exit/quit/bye are
// handled locally; everything else goes through the orchestrator.
func runREPL() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("brainsaver %s — type 'help' for examples, 'exit' to leave\n", version)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", "bye":
			fmt.Println("Goodbye!")
			return nil
		case "help":
			fmt.Println(replHelp)
			continue
		case "status":
			showStatus(a)
			continue
		}

		reply, err := a.orch.Process(ctx, input)
		fmt.Println("\n" + reply)
		if err != nil {
			printError("interaction not persisted: %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Println("\nGoodbye!")
	return nil
}

func showStatus(a *app) {
	printStatus("Session", "%s", a.sessionID)
	printStatus("Data dir", "%s", a.cfg.DataDir)

	count, err := a.store.CountInteractions()
	if err != nil {
		printStatus("Interactions", "unavailable (%v)", err)
		return
	}
	printStatus("Interactions", "%d", count)
}
