package dumpdebug

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/goava/di"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/helpers"
	"gitlab.com/olaris/olaris-variants/pkg/cmd"
)

type DumpDebugCommand cmd.Command

func RegisterDumpDebugCommand(rootCommand root.RootCommand, dumpDebugCommand DumpDebugCommand) {
	rootCommand.GetCobraCommand().AddCommand(dumpDebugCommand.GetCobraCommand())
}

func New() di.Option {
	return di.Options(
		di.Provide(NewDumpDebugCommand, di.As(new(DumpDebugCommand))),
		di.Invoke(RegisterDumpDebugCommand),
	)
}

// systemInfo is written to system.json in the archive.
type systemInfo struct {
	Version      string                 `json:"version"`
	GoVersion    string                 `json:"goVersion"`
	OS           string                 `json:"os"`
	Arch         string                 `json:"arch"`
	Host         *host.InfoStat         `json:"host,omitempty"`
	Memory       *mem.VirtualMemoryStat `json:"memory,omitempty"`
	ProcessRSS   uint64                 `json:"processRss"`
	NumGoroutine int                    `json:"numGoroutine"`
	Config       map[string]interface{} `json:"config"`
}

func collectSystemInfo() systemInfo {
	info := systemInfo{
		Version:      helpers.Version,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		NumGoroutine: runtime.NumGoroutine(),
		Config:       viper.AllSettings(),
	}
	// never ship secrets in a debug dump
	if server, ok := info.Config["server"].(map[string]interface{}); ok {
		delete(server, "ticketsecret")
	}

	if h, err := host.Info(); err == nil {
		info.Host = h
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.Memory = vm
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			info.ProcessRSS = mi.RSS
		}
	}
	return info
}

func NewDumpDebugCommand() *cmd.CobraCommand {
	c := &cobra.Command{
		Use:   "dumpdebug",
		Short: "Dump logs, the catalog and system information for debugging purposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := fmt.Sprintf("olaris-variants-dumpdebug-%s.zip",
				time.Now().Format("2006-01-02-15-04-05"))
			f, err := os.Create(filename)
			if err != nil {
				return errors.Wrap(err, "failed to open file")
			}
			defer f.Close()
			w := zip.NewWriter(f)

			if err := writeFilesInDir(w, helpers.LogPath(), "log/"); err != nil {
				log.WithError(err).Warnln("could not add logs to archive")
			}

			if helpers.FileExists(helpers.DatabasePath()) {
				if err := writeFile(w, helpers.DatabasePath(), "catalog.db.sqlite"); err != nil {
					log.WithError(err).Warnln("could not add catalog to archive")
				}
			}

			fw, err := w.Create("system.json")
			if err != nil {
				return errors.Wrap(err, "failed to write file in archive")
			}
			enc := json.NewEncoder(fw)
			enc.SetIndent("", "  ")
			if err := enc.Encode(collectSystemInfo()); err != nil {
				return errors.Wrap(err, "failed to write system info")
			}

			if err := w.Close(); err != nil {
				return errors.Wrap(err, "failed to finish archive")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", filename)
			return nil
		},
	}

	return cmd.New(c)
}

func writeFile(w *zip.Writer, path, name string) error {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	fw, err := w.Create(name)
	if err != nil {
		return errors.Errorf("Failed to write file in archive: %s", err)
	}
	_, err = fw.Write(content)
	return err
}

func writeFilesInDir(w *zip.Writer, dir string, prefix string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		return writeFile(w, path, prefix+info.Name())
	})
}
