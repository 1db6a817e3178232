// Web server for go-todoleaf
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-todoleaf/internal/config"
	"github.com/go-while/go-todoleaf/internal/store"
	"github.com/go-while/go-todoleaf/internal/web"
)

var (
	// command-line flags
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	webdebug    bool
	dbString    string
	envFile     string
	pprofAddr   string
)

var appVersion = "-unset-"

var Prof *prof.Profiler

func main() {
	config.AppVersion = appVersion

	flag.IntVar(&webport, "webport", 0, "Web server port (default: $PORT or 2121)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.BoolVar(&webdebug, "webdebug", false, "Enable gin debug mode")
	flag.StringVar(&dbString, "db", "", "Database connection string, sqlite path or mongodb:// URI (default: $DB_STRING or data/todo.sq3)")
	flag.StringVar(&envFile, "envfile", ".env", "Load environment variables from this file if it exists")
	flag.StringVar(&pprofAddr, "pprof", "", "Serve pprof and write periodic memory profiles (e.g. :51111)")
	flag.Parse()

	log.Printf("Starting go-todoleaf: Web Server (version: %s)", appVersion)

	if err := config.LoadEnvFile(envFile); err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	mainConfig := config.NewDefaultConfig()
	if err := mainConfig.ApplyEnv(); err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	webConfig := mainConfig.Web

	// Override config with command-line flags if provided
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}
	webConfig.Debug = webdebug
	if dbString != "" {
		mainConfig.Database.DSN = dbString
	}

	if err := config.ValidatePort(webConfig.ListenPort); err != nil {
		log.Fatalf("[WEB]: Invalid port number: %v", err)
	}

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		Prof.StartMemProfile(5*time.Minute, 30*time.Second)
	}

	// The store connects in the background, routes answer 503 until it is ready
	holder := store.NewHolder()
	dbCfg := mainConfig.Database
	log.Printf("[WEB]: Connecting to %s backend...", store.BackendFor(dbCfg.DSN))
	connectErrChan := holder.Connect(context.Background(), func(ctx context.Context) (store.TodoStore, error) {
		return store.Open(ctx, dbCfg)
	})

	server := web.NewServer(holder, webConfig)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	protocol := "http"
	if webConfig.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Server is running on %s://localhost:%d, you better go catch it!", protocol, webConfig.ListenPort)

	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	// Wait for either shutdown signal, server error or a failed connect
	for running := true; running; {
		select {
		case <-sigChan:
			log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
			running = false
		case err := <-webServerErrChan:
			log.Fatalf("[WEB]: Failed to start web server: %v", err)
		case err, ok := <-connectErrChan:
			if !ok {
				connectErrChan = nil
				continue
			}
			if err != nil {
				log.Fatalf("[WEB]: Failed to connect to database: %v", err)
			}
			log.Printf("[WEB]: Connected to Database")
			connectErrChan = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB]: Error stopping web server: %v", err)
	}

	if err := holder.Close(); err != nil {
		log.Printf("[WEB]: Failed to shutdown database: %v", err)
	} else {
		log.Printf("[WEB]: Database shutdown successfully")
	}

	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
