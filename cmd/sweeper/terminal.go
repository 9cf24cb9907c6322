package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vancomm/yourssweeper/internal/driver"
	"github.com/vancomm/yourssweeper/internal/mines"
)

const help = `commands:
  o <row> <col>   reveal
  f <row> <col>   flag
  c <row> <col>   chord
  n <difficulty>  new game (easy, medium, hard or rows:cols:mines)
  h [name]        record a new high score
  g               show the board
  q               quit`

// play reads commands from in and prints the board after each one. End of
// input quits.
func play(ctx context.Context, drv *driver.Driver, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, help)
	render(out, drv.View())

	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-drv.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				line = "q"
			} else {
				line = l
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := driver.ParseCommand(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		view, err := drv.Do(ctx, cmd)
		if errors.Is(err, driver.ErrStopped) {
			return nil
		}
		if _, ok := cmd.(driver.Quit); ok {
			return err
		}
		if err != nil {
			fmt.Fprintln(out, err)
		}
		render(out, view)
	}
}

func render(out io.Writer, v driver.View) {
	d := v.Difficulty
	fmt.Fprintf(out, "\n%s %dx%d  flags: %d  time: %ds  clicks: %d  %s\n",
		d, d.Rows, d.Cols, v.RemainingFlags, v.ElapsedSeconds, v.Clicks, v.Status)
	if v.Record != nil {
		fmt.Fprintf(out, "best: %s, %d seconds\n", v.Record.Name, v.Record.Seconds)
	}

	if v.Solution == nil {
		fmt.Fprint(out, v.Grid.ToString(d.Cols))
	} else {
		fmt.Fprint(out, solution(v.Solution, d.Cols))
	}

	if v.HighScorePending {
		fmt.Fprintln(out, "new high score! claim it with: h <name>")
	}
}

func solution(cells []mines.Cell, cols int) string {
	var b strings.Builder
	for i, c := range cells {
		b.WriteString(c.String())
		if (i+1)%cols == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
