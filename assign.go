package main

import (
	"bytes"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/openwebflow/assign/backend"
	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/host"
	"github.com/openwebflow/assign/memstore"
	"github.com/openwebflow/assign/sqldb"
	"github.com/openwebflow/assign/sqldb/mysql"
	"github.com/openwebflow/assign/sqldb/sqlite3"
	"github.com/openwebflow/assign/util"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

type prefixedResponseWriter struct {
	http.ResponseWriter
	prefix string // without trailing slash
}

// shadows the original WriteHeader func
func (w prefixedResponseWriter) WriteHeader(statusCode int) {
	// prepend prefix to Location header, so redirects work
	if w.prefix != "" {
		if location := w.Header().Get("Location"); len(location) > 0 && location[0] == '/' { // only absolute locations
			w.Header().Set("Location", w.prefix+location)
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// prefix should be without trailing slash
func handleStrip(prefix string, handler http.Handler) {
	http.Handle(
		prefix+"/", // http mux needs trailing slash
		http.StripPrefix(
			prefix,
			http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w = &prefixedResponseWriter{w, prefix}
					handler.ServeHTTP(w, r)
				},
			),
		),
	)
}

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	var dbArg string // is in both FlagSets

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepend it to every link")
	var configArg = flag.String("config", "", "read listen and db defaults from this ini `file`")
	flag.StringVar(&dbArg, "db", "sqlite3:assign.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url for operators and sessions, see github.com/xo/dburl")
	var hideDelegated = flag.Bool("hide-delegated", false, "hide a delegating user from the candidates when their delegate is a candidate")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&dbArg, "db", "sqlite3:assign.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "sql database url for operators and sessions, see github.com/xo/dburl") // copied from above
	var initInsert = initFlags.Bool("insert", false, "creates the given operator and prompts for their password")
	var operatorName = initFlags.String("operator", "", "specifies an operator `name`")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// optional config file, flags win over it

	if *configArg != "" {

		config, err := util.Ini(*configArg)
		if err != nil {
			log.Printf("could not read config file: %v", err)
			return
		}

		var set = map[string]bool{}
		flag.Visit(func(f *flag.Flag) {
			set[f.Name] = true
		})

		if v, ok := config["listen"]; ok && !set["listen"] {
			*listenAddr = v
		}
		if v, ok := config["db"]; ok && !set["db"] {
			dbArg = v
		}
	}

	// database

	dbURL, err := dburl.Parse(dbArg)
	if err != nil {
		log.Printf("could not parse database url: %v", err)
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Printf("could not open sql database: %v", err)
		return
	}

	if err = sqlDB.Ping(); err != nil {
		log.Printf("could not ping sql database: %v", err)
		return
	}

	log.Printf("using database %s", dbURL.String())

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// assemble stuff

	var sessionStore scs.Store
	switch dbURL.Driver {
	case "mysql":
		sessionStore = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		sessionStore = sqlite3.NewSessionStore(sqlDB)
	default:
		log.Printf("unknown database backend: %s", dbURL.Driver)
		return
	}

	engine := &core.Engine{}
	engine.MembershipDB = memstore.NewMembershipStore()
	engine.DelegationDB = memstore.NewDelegationStore()
	engine.RuleDB = memstore.NewRuleStore()
	engine.UserDetailsDB = memstore.NewUserDetailsStore()
	engine.OperatorDB = sqldb.NewOperatorDB(sqlDB)

	if err := engine.Init(sessionStore, *base); err != nil {
		log.Println(err) // log.Fatalln would not run deferred functions
		return
	}

	engine.Policy.SetHideDelegated(*hideDelegated)

	defer func() {
		log.Println("closing database")
		sqlDB.Close()
	}()

	// init

	if initFlags.Parsed() {
		if *initInsert && *operatorName != "" {
			insertOperator(engine, *operatorName)
		}
		return
	}

	listen(engine, *listenAddr, *base)
}

func insertOperator(engine *core.Engine, name string) {

	fmt.Printf("password for operator %s: ", name)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	if !bytes.Equal(pass1, pass2) {
		log.Printf("passwords don't match")
		return
	}

	o, err := engine.InsertOperator(name)
	if err != nil {
		log.Printf("error creating operator %s: %v", name, err)
		return
	}

	if err := engine.SetPassword(o, string(pass1)); err != nil {
		log.Printf("error setting password: %v", err)
		return
	}
}

func listen(engine *core.Engine, addr string, base string) {

	var taskHost = host.New(engine)

	var waitingControllers sync.WaitGroup

	handleStrip(base+"/backend", backend.NewBackendRouter(engine, taskHost, base))

	http.Handle(base+"/", http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			waitingControllers.Add(1)
			defer waitingControllers.Done()
			http.Redirect(w, req, base+"/backend/", http.StatusSeeOther)
		},
	))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      engine.SessionManager.LoadAndSave(http.DefaultServeMux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()

	waitingControllers.Wait()
}
