package scanner

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Watcher keeps the catalog in sync with changes under the library root.
type Watcher struct {
	importer *Importer
	watcher  *fsnotify.Watcher
	// settle is how long to wait before importing a new file, which may still
	// be growing.
	settle   time.Duration
	exitChan chan struct{}
	done     chan struct{}
}

// Watch starts watching the importer's library root and all directories
// below it.
func (i *Importer) Watch(settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &Watcher{
		importer: i,
		watcher:  fw,
		settle:   settle,
		exitChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	if err := w.addTree(i.root); err != nil {
		fw.Close()
		return nil, err
	}

	log.WithField("root", i.root).Println("starting fsnotify watchers")
	go w.run()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() && !w.importer.hidden(path) {
			if err := w.watcher.Add(path); err != nil {
				return errors.Wrapf(err, "failed to watch %s", path)
			}
		}
		return nil
	})
}

// Close stops the watcher and waits for the event loop to finish.
func (w *Watcher) Close() {
	close(w.exitChan)
	<-w.done
}

func (w *Watcher) run() {
	defer close(w.done)
	defer w.watcher.Close()

	for {
		select {
		case <-w.exitChan:
			log.Println("stopping fsnotify watchers")
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnln("fsnotify watcher error:", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	log.WithFields(log.Fields{"filename": event.Name, "event": event.Op}).Debugln("got filesystem notification event")
	if w.importer.hidden(event.Name) {
		return
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		n, err := w.importer.RemovePath(event.Name)
		if err != nil {
			log.WithError(err).WithField("path", event.Name).Warnln("failed to drop removed variant")
		} else if n > 0 {
			log.WithFields(log.Fields{"path": event.Name, "variants": n}).Infoln("removed variant from catalog")
		}
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	node, err := statLocal(event.Name)
	if err != nil {
		return
	}
	if node.IsDir() {
		if err := w.addTree(event.Name); err != nil {
			log.WithError(err).Warnln("failed to watch new directory")
		}
		w.importDir(event.Name)
		return
	}
	if !ValidFile(event.Name) {
		return
	}

	select {
	case <-time.After(w.settle):
	case <-w.exitChan:
		return
	}
	w.importDir(filepath.Dir(event.Name))
}

func (w *Watcher) importDir(dir string) {
	if _, err := w.importer.ImportDir(dir); err != nil {
		log.WithError(err).WithField("dir", dir).Warnln("failed to import directory")
	}
}
