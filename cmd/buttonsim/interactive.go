package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"buttoncode-go/types"
)

// screenState is what the interactive view draws.
type screenState struct {
	held    bool
	presses []types.ButtonPress
}

const maxHistory = 10

func runInteractive(ctx context.Context, s *sim) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Presses arrive from the service; wake the event loop for each one.
	presses := make(chan types.ButtonPress, 1)
	go func() {
		for {
			ev, err := s.sig.Wait(ctx)
			if err != nil {
				return
			}
			select {
			case presses <- ev:
			case <-ctx.Done():
				return
			}
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()
	go func() {
		<-ctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	st := &screenState{}
	draw(screen, st)
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				s.line.Release()
				return nil
			case ev.Rune() == ' ':
				st.held = !st.held
				s.line.Set(st.held)
			}
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		drain:
			for {
				select {
				case p := <-presses:
					st.presses = append(st.presses, p)
					if len(st.presses) > maxHistory {
						st.presses = st.presses[1:]
					}
				default:
					break drain
				}
			}
		}
		draw(screen, st)
	}
}

func draw(screen tcell.Screen, st *screenState) {
	screen.Clear()
	title := tcell.StyleDefault.Bold(true)
	putString(screen, 0, 0, "buttonsim: space toggles the line, q quits", title)

	lvl, style := "released (Low)", tcell.StyleDefault.Foreground(tcell.ColorGreen)
	if st.held {
		lvl, style = "held (High)", tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	putString(screen, 0, 2, "line: "+lvl, style)

	for i, p := range st.presses {
		putString(screen, 0, 4+i, fmt.Sprintf("#%-4d %s", p.Seq, p.Duration), tcell.StyleDefault)
	}
	screen.Show()
}

func putString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
