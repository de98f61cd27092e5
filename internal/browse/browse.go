// Package browse implements an interactive terminal front end over a query
// session: each settled query change re-renders the visible logos.
package browse

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/starford/logoteca/internal/models"
	"github.com/starford/logoteca/internal/query"
)

// Snapshotter returns the current logo collection.
type Snapshotter interface {
	Logos() []models.Logo
}

// SnapshotFunc adapts a function to Snapshotter.
type SnapshotFunc func() []models.Logo

// Logos calls f.
func (f SnapshotFunc) Logos() []models.Logo { return f() }

const help = `commands:
  :color <value>   toggle the color filter
  :type <value>    toggle the type filter (serif, sans-serif)
  :clear           drop all filters
  :show            render now
  :quit            leave
anything else sets the search term`

// Run reads commands from in until EOF, ctx cancellation, or :quit, writing
// renders to out. Search-term lines are debounced by window; Run cancels any
// pending update before returning.
func Run(ctx context.Context, in io.Reader, out io.Writer, logos Snapshotter, window time.Duration) error {
	var mu sync.Mutex
	render := func(q models.Query) {
		results := query.Filter(logos.Logos(), q)
		mu.Lock()
		defer mu.Unlock()
		Render(out, q, results)
	}

	sess := query.NewSession(window, render)
	defer sess.Close()

	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	mu.Lock()
	fmt.Fprintln(out, help)
	mu.Unlock()
	render(sess.Query())

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if quit := dispatch(sess, strings.TrimSpace(line), render); quit {
				return nil
			}
		}
	}
}

func dispatch(sess *query.Session, line string, render func(models.Query)) bool {
	if !strings.HasPrefix(line, ":") {
		sess.SetSearchTerm(line)
		return false
	}
	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "color":
		sess.ToggleColor(arg)
	case "type":
		sess.ToggleType(arg)
	case "clear":
		sess.Clear()
	case "show":
		sess.Flush()
		render(sess.Query())
	case "quit", "q":
		return true
	default:
		sess.SetSearchTerm(line)
	}
	return false
}

// Render writes one result block. An empty result prints "no matches".
func Render(w io.Writer, q models.Query, logos []models.Logo) {
	fmt.Fprintf(w, "-- q=%q color=%q type=%q: %d logo(s)\n", q.SearchTerm, q.Color, q.Type, len(logos))
	if len(logos) == 0 {
		fmt.Fprintln(w, "   no matches")
		return
	}
	for _, l := range logos {
		fmt.Fprintf(w, "   %s  %s\n", l, l.Source)
	}
}
