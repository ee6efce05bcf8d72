package builtin

import (
	"fmt"
	"time"

	"github.com/statboard/statboard/pkg/layout"
	"github.com/statboard/statboard/pkg/metrics"
	"github.com/statboard/statboard/pkg/ui/buffer"
	"github.com/statboard/statboard/pkg/ui/terminal"
)

// Git shows branch, ahead/behind counts, dirty-file count and recent
// commit subjects for one repository.
type Git struct {
	source metrics.RepoInspector
	status metrics.RepoStatus
}

// NewGit creates a git widget over the given inspector.
func NewGit(s metrics.RepoInspector) *Git {
	return &Git{source: s}
}

func (w *Git) Tick(time.Duration) {
	w.status = w.source.Status()
}

func (w *Git) HandleInput(terminal.KeyEvent) bool { return false }

func (w *Git) Render(buf *buffer.Buffer, area layout.Rect, focused bool) {
	inner := frame(buf, area, "git", focused)
	if inner.Empty() {
		return
	}
	st := w.status
	head := fmt.Sprintf("%s ↑%d ↓%d", st.Branch, st.Ahead, st.Behind)
	buf.SetString(inner.X+1, inner.Y, head, titleStyle)
	if inner.Height > 1 {
		dirty := "clean"
		style := dimStyle
		if st.DirtyFiles > 0 {
			dirty = fmt.Sprintf("%d dirty files", st.DirtyFiles)
			style = alertStyle
		}
		buf.SetString(inner.X+1, inner.Y+1, dirty, style)
	}
	for i, commit := range st.RecentCommits {
		y := inner.Y + 3 + i
		if y >= inner.Y+inner.Height {
			break
		}
		buf.SetString(inner.X+1, y, commit, textStyle)
	}
}
