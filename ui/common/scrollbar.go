package common

import (
	"strings"

	"github.com/miosa/osa-vlist/style"
)

const (
	scrollTrackV = "│"
	scrollTrackH = "─"
	scrollThumb  = "█"
	scrollThumbH = "▀"
)

// Scrollbar describes a track of Track cells showing a window of Track units
// at Offset within Content units.
type Scrollbar struct {
	Track      int
	Content    int
	Offset     int
	Horizontal bool
}

// Thumb returns the thumb's first cell and length. ok is false when the
// content fits the track.
func (s Scrollbar) Thumb() (top, size int, ok bool) {
	if s.Track <= 0 || s.Content <= s.Track {
		return 0, 0, false
	}
	size = max(s.Track*s.Track/s.Content, 1)

	scrollable := s.Content - s.Track
	offset := max(0, min(s.Offset, scrollable))
	top = offset * (s.Track - size) / scrollable
	top = max(0, min(top, s.Track-size))
	return top, size, true
}

// View renders the bar as a column, or a row when Horizontal. It is empty
// when the content fits.
func (s Scrollbar) View() string {
	top, size, ok := s.Thumb()
	if !ok {
		return ""
	}

	track, thumb, sep := scrollTrackV, scrollThumb, "\n"
	if s.Horizontal {
		track, thumb, sep = scrollTrackH, scrollThumbH, ""
	}
	cells := make([]string, s.Track)
	for i := range cells {
		if i >= top && i < top+size {
			cells[i] = style.ScrollbarThumb.Render(thumb)
		} else {
			cells[i] = style.ScrollbarTrack.Render(track)
		}
	}
	return strings.Join(cells, sep)
}
