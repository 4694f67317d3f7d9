package main

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow is how long a file must stay quiet before it is reported;
// editors often write a file in several steps.
const debounceWindow = 100 * time.Millisecond

// Watcher reports obstacle files that changed on disk
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// pendingFile is a file waiting out its quiet period
type pendingFile struct {
	timer *time.Timer
	seq   uint64
}

type settledFile struct {
	name string
	seq  uint64
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	settled := make(chan settledFile)
	pending := make(map[string]pendingFile)
	var seq uint64
	defer func() {
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isObstacleFile(event.Name) {
				continue
			}
			// Every event restarts the file's quiet period; a timer that
			// already fired is recognized as stale by its sequence number.
			if p, ok := pending[event.Name]; ok {
				p.timer.Stop()
			}
			seq++
			fired := settledFile{name: event.Name, seq: seq}
			pending[event.Name] = pendingFile{
				seq: seq,
				timer: time.AfterFunc(debounceWindow, func() {
					select {
					case settled <- fired:
					case <-w.closeCh:
					}
				}),
			}
		case f := <-settled:
			if p, ok := pending[f.name]; !ok || p.seq != f.seq {
				continue
			}
			delete(pending, f.name)
			select {
			case w.Events <- f.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}
