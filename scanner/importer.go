// Package scanner imports variant files from a library directory into the
// catalog. Every directory holding variant files is one asset and every file
// in it one codec variant.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Jeffail/tunny"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/powerwalk"

	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/filesystem"
)

// Result summarises an import run.
type Result struct {
	Assets   int
	Variants int
	Skipped  int
}

type probeJob struct {
	path string
	size int64
}

type probeResult struct {
	probeJob
	id   codec.ID
	kind catalog.MediaKind
}

// Importer probes variant files with a bounded worker pool and records them
// in the catalog.
type Importer struct {
	root      string
	probePool *tunny.Pool
	// catalog writes are serialized
	storeLock sync.Mutex
}

// NewImporter creates an importer for the library at root with the given
// number of probe workers.
func NewImporter(root string, workers int) *Importer {
	if workers <= 0 {
		workers = 4
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	i := &Importer{root: filepath.Clean(root)}
	i.probePool = tunny.NewFunc(workers, func(payload interface{}) interface{} {
		job, ok := payload.(probeJob)
		if !ok {
			log.Warnln("got a probe job that couldn't be cast as such")
			return probeResult{}
		}
		id, kind := classify(job.path)
		return probeResult{probeJob: job, id: id, kind: kind}
	})
	return i
}

// Shutdown properly shuts down the worker pool.
func (i *Importer) Shutdown() {
	log.Debugln("shutting down importer pool")
	i.probePool.Close()
}

func (i *Importer) hidden(path string) bool {
	rel, err := filepath.Rel(i.root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// Import walks the whole library and records every variant found.
func (i *Importer) Import() (Result, error) {
	if root, err := statLocal(i.root); err != nil {
		return Result{}, errors.Wrapf(err, "library root %s", i.root)
	} else if !root.IsDir() {
		return Result{}, errors.Errorf("library root %s is not a directory", i.root)
	}

	var mu sync.Mutex
	var jobs []probeJob
	err := powerwalk.Walk(i.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).WithField("path", path).Warnln("could not walk path")
			return nil
		}
		if info.IsDir() || !ValidFile(path) || i.hidden(path) {
			return nil
		}
		mu.Lock()
		jobs = append(jobs, probeJob{path: path, size: info.Size()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to walk library")
	}

	log.WithFields(log.Fields{"root": i.root, "files": len(jobs)}).Infoln("probing library files")
	return i.store(i.probe(jobs))
}

// ImportDir (re)imports the variants of a single asset directory.
func (i *Importer) ImportDir(dir string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to read %s", dir)
	}

	var jobs []probeJob
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() || !ValidFile(path) || i.hidden(path) {
			continue
		}
		node, err := statLocal(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Debugln("variant vanished before it could be imported")
			continue
		}
		jobs = append(jobs, probeJob{path: node.Path(), size: node.Size()})
	}
	return i.store(i.probe(jobs))
}

// RemovePath drops every variant stored for path.
func (i *Importer) RemovePath(path string) (int64, error) {
	i.storeLock.Lock()
	defer i.storeLock.Unlock()
	return catalog.DeleteVariantsByLocator(locatorFor(path))
}

func (i *Importer) probe(jobs []probeJob) []probeResult {
	results := make([]probeResult, len(jobs))
	var wg sync.WaitGroup
	for idx, job := range jobs {
		wg.Add(1)
		go func(idx int, job probeJob) {
			defer wg.Done()
			log.Debugln("current probe queue length:", i.probePool.QueueLength())
			results[idx] = i.probePool.Process(job).(probeResult)
		}(idx, job)
	}
	wg.Wait()
	return results
}

// statLocal stats a library path through the storage layer, so a missing
// file is reported as errdefs.ErrNotFound.
func statLocal(path string) (filesystem.Node, error) {
	return filesystem.GetNodeFromFileLocator(filesystem.FileLocator{Backend: filesystem.BackendLocal, Path: path})
}

func locatorFor(path string) string {
	return filesystem.FileLocator{Backend: filesystem.BackendLocal, Path: path}.String()
}

// assetName is the directory's path relative to the library root.
func (i *Importer) assetName(dir string) (name, owner string) {
	rel, err := filepath.Rel(i.root, dir)
	if err != nil || rel == "." {
		return filepath.Base(dir), ""
	}
	rel = filepath.ToSlash(rel)
	if idx := strings.LastIndex(rel, "/"); idx >= 0 {
		return rel, rel[:idx]
	}
	return rel, ""
}

// assetKind picks the kind of a directory: video beats audio beats image.
func assetKind(results []probeResult) catalog.MediaKind {
	kind := catalog.KindImage
	for _, r := range results {
		switch r.kind {
		case catalog.KindVideo:
			return catalog.KindVideo
		case catalog.KindAudio:
			kind = catalog.KindAudio
		}
	}
	return kind
}

func (i *Importer) store(results []probeResult) (Result, error) {
	byDir := map[string][]probeResult{}
	for _, r := range results {
		if r.id == "" {
			continue
		}
		dir := filepath.Dir(r.path)
		byDir[dir] = append(byDir[dir], r)
	}
	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	i.storeLock.Lock()
	defer i.storeLock.Unlock()

	var res Result
	for _, dir := range dirs {
		files := byDir[dir]
		kind := assetKind(files)
		name, owner := i.assetName(dir)

		asset, err := catalog.FindOrCreateAsset(name, kind, owner)
		if err != nil {
			return res, err
		}
		res.Assets++

		for _, f := range files {
			if f.kind == catalog.KindImage && kind != catalog.KindImage {
				log.WithFields(asset.LogFields()).WithField("path", f.path).Debugln("skipping image inside a media asset")
				res.Skipped++
				continue
			}
			if _, err := catalog.UpsertVariant(asset, f.id, locatorFor(f.path), f.size); err != nil {
				return res, err
			}
			res.Variants++
		}
	}
	res.Skipped += len(results) - countStored(byDir)
	log.WithFields(log.Fields{"assets": res.Assets, "variants": res.Variants, "skipped": res.Skipped}).Infoln("library import finished")
	return res, nil
}

func countStored(byDir map[string][]probeResult) int {
	n := 0
	for _, rs := range byDir {
		n += len(rs)
	}
	return n
}
