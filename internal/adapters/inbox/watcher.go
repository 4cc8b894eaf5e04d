// Package inbox watches a drop directory: PDF/DOCX files appearing there
// are attached through the normal upload path, as if selected in the UI.
package inbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/sesitech/agrichat/internal/app/chat"
	"github.com/sesitech/agrichat/internal/observability"
)

// contentTypes maps the extensions we accept to their declared MIME types;
// anything else is left alone and will be rejected by the attach path.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type Watcher struct {
	watcher *fsnotify.Watcher
	chats   *chat.Service
	dir     string
}

func NewWatcher(chats *chat.Service, dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{watcher: w, chats: chats, dir: dir}, nil
}

// Run consumes watch events until the context ends. Failures attach
// nothing and are logged; the watcher keeps going.
func (w *Watcher) Run(ctx context.Context) {
	log := observability.WithFields("inbox", w.dir)
	log.Info("watching inbox directory")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.attach(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("inbox watch error", "error", err)
		}
	}
}

func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) attach(ctx context.Context, path string) {
	log := observability.WithFields("inbox", w.dir, "file", path)

	contentType, ok := contentTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("could not open dropped file", "error", err)
		return
	}
	defer f.Close()

	sess, err := w.chats.Attach(ctx, chat.Upload{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Reader:      f,
	})
	if err != nil {
		log.Warn("could not attach dropped file", "error", err)
		return
	}
	log.Info("attached dropped file", "session_id", sess.ID)
}
