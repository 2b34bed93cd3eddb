package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// Console reads transport commands from the terminal.
type Console struct {
	queue  *Queue
	out    io.Writer
	prompt string
}

func NewConsole(queue *Queue) *Console {
	return &Console{queue: queue, out: os.Stdout, prompt: "timeline> "}
}

// Completer offers every command, and the current groups after "group".
func (c *Console) Completer() readline.AutoCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(ops)+3)
	for _, op := range ops {
		switch op {
		case OpGroup:
			items = append(items, readline.PcItem(string(op), readline.PcItemDynamic(c.groupNames)))
		case OpRecord:
			items = append(items, readline.PcItem(string(op), readline.PcItem("on"), readline.PcItem("off")))
		default:
			items = append(items, readline.PcItem(string(op)))
		}
	}
	items = append(items, readline.PcItem("status"), readline.PcItem("help"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}

func (c *Console) groupNames(string) []string {
	return c.queue.Snapshot().Groups
}

// Run reads lines until exit, EOF, an interrupt or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".timeline_history")
	}

	config := &readline.Config{
		Prompt:       c.prompt,
		HistoryFile:  historyFile,
		AutoComplete: c.Completer(),
	}
	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("control: console: %w", err)
	}
	c.out = rl.Stdout()

	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()
	defer rl.Close()

	c.printHelp()
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("control: console: %w", err)
		}
		if !c.Handle(line) {
			return nil
		}
	}
}

// Handle runs one console line and reports whether the console keeps going.
func (c *Console) Handle(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return true
	case "exit", "quit":
		return false
	case "help":
		c.printHelp()
		return true
	case "status":
		c.printStatus()
		return true
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return true
	}
	c.queue.Push(cmd)
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  play | pause | stop   transport")
	fmt.Fprintln(c.out, "  seek <seconds>        jump to a time")
	fmt.Fprintln(c.out, "  step [seconds]        move and pause")
	fmt.Fprintln(c.out, "  group <name|index>    select the playing group")
	fmt.Fprintln(c.out, "  record on|off         capture the baseline on the next play from zero")
	fmt.Fprintln(c.out, "  reload                rebuild the timeline from disk")
	fmt.Fprintln(c.out, "  status                show the timeline")
	fmt.Fprintln(c.out, "  exit")
}

func (c *Console) printStatus() {
	snap := c.queue.Snapshot()
	if !snap.Loaded {
		fmt.Fprintln(c.out, "no timeline loaded")
		return
	}
	fmt.Fprintf(c.out, "%s: %s %.2f/%.2fs group=%s recording=%t\n",
		snap.Name, snap.State, snap.Time, snap.Length, snap.Group, snap.Recording)
	for _, t := range snap.Tracks {
		mark := " "
		if t.Armed {
			mark = "*"
		}
		fmt.Fprintf(c.out, " %s %-6s %-12s %6.2f+%-6.2f %-8s %s\n",
			mark, t.Kind, t.Tag, t.Start, t.Duration, t.Group, t.Target)
	}
}
