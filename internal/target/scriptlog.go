package target

import (
	"fmt"
	"io"
	"sync"

	"github.com/openmodbus/shmwrite/internal/engine"
)

// ScriptLog re-emits every applied instruction in the input grammar, one
// register per line with hex numerals, so a recorded session can be played
// back through the tool with base auto-detection.
type ScriptLog struct {
	mu sync.Mutex
	w  io.Writer
}

func NewScriptLog(w io.Writer) *ScriptLog {
	return &ScriptLog{w: w}
}

// Record writes the instructions of one applied line.
func (l *ScriptLog) Record(instructions []engine.Instruction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ins := range instructions {
		if _, err := fmt.Fprintln(l.w, ins.String()); err != nil {
			return fmt.Errorf("script log: %w", err)
		}
	}
	return nil
}
