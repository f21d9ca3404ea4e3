package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/rafabd1/LintHound/utils"
)

const progressWidth = 30

// ProgressBar draws a single "files done / total" line under the log output.
// It shares the logger's lock and writer, and draws nothing unless the
// logger writes to a terminal.
type ProgressBar struct {
	l         *Logger
	total     int
	current   int
	startTime time.Time
	active    bool
}

// NewProgressBar attaches a progress line for total items to the logger.
// Silent loggers and non-terminal outputs get an inert bar.
func (l *Logger) NewProgressBar(total int) *ProgressBar {
	pb := &ProgressBar{l: l, total: total, startTime: time.Now()}
	if !l.terminal || l.silent || total <= 0 {
		return pb
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	pb.active = true
	l.progress = pb
	pb.renderLocked()
	return pb
}

// Increment records one finished item.
func (pb *ProgressBar) Increment() {
	pb.l.mu.Lock()
	defer pb.l.mu.Unlock()
	pb.current++
	if pb.active {
		pb.renderLocked()
	}
}

func (pb *ProgressBar) Current() int {
	pb.l.mu.Lock()
	defer pb.l.mu.Unlock()
	return pb.current
}

// Finish clears the line and detaches the bar from the logger.
func (pb *ProgressBar) Finish() {
	pb.l.mu.Lock()
	defer pb.l.mu.Unlock()
	if !pb.active {
		return
	}
	pb.clearLocked()
	pb.active = false
	if pb.l.progress == pb {
		pb.l.progress = nil
	}
}

func (pb *ProgressBar) status() string {
	completed := 0
	if pb.total > 0 {
		completed = min(progressWidth*pb.current/pb.total, progressWidth)
	}
	bar := strings.Repeat("█", completed) + strings.Repeat("░", progressWidth-completed)
	return fmt.Sprintf("[%s] %d/%d files | %s", bar, pb.current, pb.total,
		utils.FormatDuration(time.Since(pb.startTime)))
}

func (pb *ProgressBar) renderLocked() {
	fmt.Fprint(pb.l.out, "\033[2K\r"+pb.status())
}

func (pb *ProgressBar) clearLocked() {
	fmt.Fprint(pb.l.out, "\033[2K\r")
}
