// Package progress renders a live status line for a long-running
// enumeration, in the same channel-driven, redraw-in-place style the
// teacher's solver used for its island search.
package progress

import (
	"fmt"
	"sync"
	"time"
)

// Update reports a run's position partway through: Level (zero-based)
// out of MaxSize fills the bar and the "depth" figure of the status
// line, and Emitted is the running count shown beside it. The --mt
// driver sends the index of the shard that just finished, the shard
// count, and the number of shards completed so far.
type Update struct {
	Level   int
	MaxSize int
	Emitted uint64
	Action  string
}

// PrintUpdates drains ch, redrawing a single progress line in place until
// the channel is closed. It returns once draining completes, signalling
// wg.Done on the way out, and is a no-op if ch is nil.
func PrintUpdates(ch <-chan Update, wg *sync.WaitGroup) {
	defer wg.Done()
	if ch == nil {
		return
	}
	fmt.Println("Starting...")
	for {
		select {
		case update, ok := <-ch:
			if !ok {
				return
			}
			bar := ""
			pct := float64(update.Level+1) / float64(update.MaxSize)
			for i := 0.05; i <= 1.0; i += 0.05 {
				if pct >= i {
					bar += "="
				} else {
					bar += "."
				}
			}
			line := fmt.Sprintf("[%s] depth %d/%d, %d emitted (%s)",
				bar, update.Level+1, update.MaxSize, update.Emitted, update.Action)
			fmt.Print("\033[1A\033[K")
			fmt.Printf("%s\n", line)
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
}
