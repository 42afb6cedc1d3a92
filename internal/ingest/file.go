package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/nxadm/tail"
)

// File reads a log file. With Backfill > 0 only the last Backfill lines are
// loaded; with Follow the file is then tailed for new lines, surviving
// rotation.
type File struct {
	Path     string
	Backfill int
	Follow   bool
	// Poll uses polling instead of inotify when following.
	Poll bool
	Now  func() time.Time
}

// Name implements Source.
func (f *File) Name() string {
	return f.Path
}

// Run implements Source.
func (f *File) Run(ctx context.Context, sink Sink, health Health) error {
	now := f.Now
	if now == nil {
		now = time.Now
	}
	if f.Backfill > 0 || f.Follow {
		lines, offset, err := ReadTail(f.Path, f.Backfill)
		if err != nil {
			health.Update(0, 0, err)
			return err
		}
		for _, line := range lines {
			if line != "" {
				sink.Append(Parse(line, now()))
			}
		}
		health.Update(len(lines), 0, nil)
		if !f.Follow {
			return nil
		}
		return f.follow(ctx, offset, sink, health, now)
	}

	file, err := os.Open(f.Path)
	if err != nil {
		err = fmt.Errorf("open log: %w", err)
		health.Update(0, 0, err)
		return err
	}
	defer func() { _ = file.Close() }()
	r := &Reader{R: file, Label: f.Path, Now: now}
	return r.Run(ctx, sink, health)
}

// follow tails the file from offset, the end of the backfilled lines.
func (f *File) follow(ctx context.Context, offset int64, sink Sink, health Health, now func() time.Time) error {
	t, err := tail.TailFile(f.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      f.Poll,
		Logger:    tail.DiscardingLogger,
		Location:  &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
	})
	if err != nil {
		err = fmt.Errorf("tail %s: %w", f.Path, err)
		health.Update(0, 0, err)
		return err
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return nil
		case l, ok := <-t.Lines:
			if !ok {
				if err := t.Err(); err != nil {
					return fmt.Errorf("tail %s: %w", f.Path, err)
				}
				return nil
			}
			if l.Err != nil {
				log.Printf("ingest: tail %s: %v", f.Path, l.Err)
				health.Update(0, 0, l.Err)
				continue
			}
			if l.Text == "" {
				continue
			}
			sink.Append(Parse(l.Text, now()))
			health.Update(1, 0, nil)
		}
	}
}

// ReadTail returns at most maxLines from the end of the file at path and
// the byte offset just past the last complete line read. A trailing line
// without a newline is left for the follower. A missing file yields no
// lines and offset zero.
func ReadTail(path string, maxLines int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	if maxLines <= 0 {
		info, err := file.Stat()
		if err != nil {
			return nil, 0, fmt.Errorf("stat log: %w", err)
		}
		return nil, info.Size(), nil
	}

	var offset int64
	complete := false
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, scanBufferLen), maxLineSize)
	scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)
		complete = advance > 0 && data[advance-1] == '\n'
		if complete {
			offset += int64(advance)
		}
		return advance, token, err
	})

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		if !complete {
			break
		}
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, offset, nil
}
