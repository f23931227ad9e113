package audit

import (
	"encoding/json"
	"io"
	stdlog "log"
	"sync"

	"github.com/hpcloud/tail"
)

// Follower streams entries appended to the log after it was created.
type Follower struct {
	Entries <-chan Entry

	t    *tail.Tail
	once sync.Once
	done chan struct{}
}

// Follow starts tailing filePath from its current end. The file need not
// exist yet. Malformed lines are skipped. Call Stop when done.
func Follow(filePath string) (*Follower, error) {
	t, err := tail.TailFile(filePath, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Location:  &tail.SeekInfo{Offset: LogSize(filePath), Whence: io.SeekStart},
		Logger:    stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return nil, err
	}

	entries := make(chan Entry)
	f := &Follower{Entries: entries, t: t, done: make(chan struct{})}

	go func() {
		defer close(entries)
		for line := range t.Lines {
			if line.Err != nil || line.Text == "" {
				continue
			}
			var e Entry
			if err := json.Unmarshal([]byte(line.Text), &e); err != nil {
				continue
			}
			select {
			case entries <- e:
			case <-f.done:
				return
			}
		}
	}()
	return f, nil
}

// Stop ends tailing and releases the file.
func (f *Follower) Stop() {
	f.once.Do(func() {
		close(f.done)
		_ = f.t.Stop()
		f.t.Cleanup()
	})
}
