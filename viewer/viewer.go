package viewer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"anticonnect/game"

	"github.com/muesli/termenv"
)

// Viewer prints boards for humans. Stdout belongs to the protocol, so the
// default output is stderr.
type Viewer struct {
	out *termenv.Output
}

func New(w io.Writer, options ...termenv.OutputOption) *Viewer {
	return &Viewer{out: termenv.NewOutput(w, options...)}
}

// Render prints b to stderr.
func Render(b *game.Board) error {
	return New(os.Stderr).Render(b)
}

// Render prints the board with row and column indices. PlayerA stones are
// red, PlayerB stones blue and the last stone is underlined.
func (v *Viewer) Render(b *game.Board) error {
	var sb strings.Builder
	size := b.Size()
	last, _ := b.Last()

	sb.WriteString("   ")
	for c := 0; c < size; c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteByte('\n')

	for r := 0; r < size; r++ {
		fmt.Fprintf(&sb, "%2d ", r)
		for c := 0; c < size; c++ {
			m := game.Move{Row: r, Col: c}
			sb.WriteByte(' ')
			sb.WriteString(v.cell(b.At(m), m == last))
		}
		sb.WriteByte('\n')
	}

	if loser := b.Loser(); loser != game.Empty {
		fmt.Fprintf(&sb, "%v completed a run and lost\n", loser)
	} else if b.Full() {
		sb.WriteString("board full, draw\n")
	}

	_, err := io.WriteString(v.out, sb.String())
	return err
}

func (v *Viewer) cell(color game.Color, last bool) string {
	var style termenv.Style
	switch color {
	case game.PlayerA:
		style = v.out.String("X").Foreground(v.out.Color("1")).Bold()
	case game.PlayerB:
		style = v.out.String("O").Foreground(v.out.Color("4")).Bold()
	default:
		return v.out.String(".").Faint().String()
	}
	if last {
		style = style.Underline()
	}
	return style.String()
}
