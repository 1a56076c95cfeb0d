package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goava/di"
	"github.com/gorilla/handlers"
	"github.com/grandcat/zeroconf"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"gitlab.com/olaris/olaris-variants/app"
	"gitlab.com/olaris/olaris-variants/cmd/root"
	"gitlab.com/olaris/olaris-variants/filesystem"
	"gitlab.com/olaris/olaris-variants/interfaces/web"
	"gitlab.com/olaris/olaris-variants/pkg/cmd"
	"gitlab.com/olaris/olaris-variants/scanner"
	"gitlab.com/olaris/olaris-variants/streaming"
)

type ServeCommand cmd.Command

func New() di.Option {
	return di.Options(
		di.Provide(NewServeCommand, di.As(new(ServeCommand))),
		di.Invoke(RegisterServeCommand),
	)
}

func RegisterServeCommand(rootCommand root.RootCommand, serveCommand ServeCommand) {
	rootCommand.GetCobraCommand().AddCommand(serveCommand.GetCobraCommand())

	rootCommand.GetCobraCommand().Flags().AddFlagSet(serveCommand.GetCobraCommand().Flags())
	rootCommand.GetCobraCommand().RunE = serveCommand.GetCobraCommand().RunE
}

func streamingOptions() streaming.Options {
	return streaming.Options{
		ChunkSize:    viper.GetInt("streaming.chunkSize"),
		WriteTimeout: viper.GetDuration("streaming.writeTimeout"),
		StrictRanges: viper.GetBool("streaming.strictRanges"),
		ImageRanges:  viper.GetBool("streaming.imageRanges"),
	}
}

// NewRouter mounts the streaming controller.
func NewRouter(env *app.AppContext, opts streaming.Options) http.Handler {
	mainRouter := web.Mount(streaming.NewStreamingController(env, opts))

	handler := cors.AllowAll().Handler(mainRouter)
	return handlers.LoggingHandler(os.Stdout, handler)
}

func NewServeCommand() *cmd.CobraCommand {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the variant server",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.WatchConfig()
			filesystem.InitRclone(viper.GetString("rclone.config"))
			defer filesystem.ShutdownRclone()

			env, err := app.NewDefaultAppContext()
			if err != nil {
				return err
			}
			defer env.Cleanup()

			updateConfig := func(in fsnotify.Event) {
				log.WithField("file", in.Name).Infoln("configuration file change detected")
				if viper.GetBool("server.verbose") {
					log.SetLevel(log.DebugLevel)
				} else {
					log.SetLevel(log.InfoLevel)
				}
				env.Db.LogMode(viper.GetBool("server.DBLog"))
			}
			viper.OnConfigChange(updateConfig)

			if libraryPath := viper.GetString("library.path"); libraryPath != "" {
				importer := scanner.NewImporter(libraryPath, 4)
				defer importer.Shutdown()

				importDone := make(chan struct{})
				defer func() { <-importDone }()
				go func() {
					defer close(importDone)
					if _, err := importer.Import(); err != nil {
						log.WithError(err).Errorln("library import failed")
					}
				}()

				if viper.GetBool("library.watch") {
					watcher, err := importer.Watch(2 * time.Second)
					if err != nil {
						log.WithError(err).Warnln("could not watch library for changes")
					} else {
						defer watcher.Close()
					}
				}
			}

			port := viper.GetInt("server.port")

			if viper.GetBool("server.zeroconf.enabled") {
				domain := viper.GetString("server.zeroconf.domain")
				zeroconfService, err := zeroconf.Register("olaris-variants", "_http._tcp", domain, port, []string{"txtv=0", "path=/media"}, nil)
				if err != nil {
					log.WithError(err).Warn("zeroconf setup failed")
				} else {
					log.Info("zeroconf successfully enabled")
					defer zeroconfService.Shutdown()
				}
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           NewRouter(env, streamingOptions()),
				ReadHeaderTimeout: viper.GetDuration("server.readHeaderTimeout"),
				IdleTimeout:       viper.GetDuration("server.idleTimeout"),
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Infoln("binding on port", port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return errors.Wrap(err, "error starting server")
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Println("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			err = g.Wait()
			log.Println("shut down complete, exiting.")
			return err
		},
	}

	c.Flags().IntP("port", "p", 8080, "http port")
	c.Flags().BoolP("verbose", "v", false, "verbose logging")
	c.Flags().Bool("db-log", false, "sets whether the database should log queries")
	c.Flags().String("db-conn", "", "sets the database connection string")
	c.Flags().String("library-path", "", "directory to import variants from on startup")
	c.Flags().Bool("watch", false, "keep the catalog in sync with changes under the library path")
	c.Flags().Bool("require-tickets", false, "only stream to requests carrying a valid stream ticket")

	viper.BindPFlag("server.port", c.Flags().Lookup("port"))
	viper.BindPFlag("server.verbose", c.Flags().Lookup("verbose"))
	viper.BindPFlag("server.DBLog", c.Flags().Lookup("db-log"))
	viper.BindPFlag("database.connection", c.Flags().Lookup("db-conn"))
	viper.BindPFlag("library.path", c.Flags().Lookup("library-path"))
	viper.BindPFlag("library.watch", c.Flags().Lookup("watch"))
	viper.BindPFlag("server.requireTickets", c.Flags().Lookup("require-tickets"))

	return cmd.New(c)
}
