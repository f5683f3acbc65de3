// Command cartctl drives a storefront cart from the terminal: it keeps the
// device's cart session, talks to the cart API and prints the cart after every
// change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/garden_shop/pkg/cartclient"
	"github.com/Skotchmaster/garden_shop/pkg/cartstate"
	"github.com/Skotchmaster/garden_shop/pkg/config"
	"github.com/Skotchmaster/garden_shop/pkg/logging"
	"github.com/Skotchmaster/garden_shop/pkg/session"
)

const usage = `usage: cartctl [flags] <command> [args]

commands:
  show                      print the cart
  add <productId> [qty]     add a product (qty defaults to 1)
  set <itemId> <qty>        change a line's quantity, 0 removes it
  rm <itemId>               remove a line
  clear                     empty the cart
  session                   print the session identifier
  session reset             forget the session and start a new cart

flags:
`

func main() {
	config.LoadEnvFile(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	apiURL      string
	timeout     time.Duration
	sessionFile string
	profile     string
	optimistic  bool
	bulkClear   bool
	logLevel    string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("cartctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.apiURL, "api", cfg.CartAPIURL, "cart API base URL")
	fs.DurationVar(&opts.timeout, "timeout", cfg.RequestTimeout, "per request timeout")
	fs.StringVar(&opts.sessionFile, "session-file", config.EnvDefault("CART_SESSION_FILE", ""), "session file (default under the user config dir)")
	fs.StringVar(&opts.profile, "profile", config.EnvDefault("CART_PROFILE", "default"), "profile key when sessions are kept in redis")
	fs.BoolVar(&opts.optimistic, "optimistic", false, "count items before the server confirms them")
	fs.BoolVar(&opts.bulkClear, "bulk-clear", true, "clear the cart with a single request")
	fs.StringVar(&opts.logLevel, "log-level", config.EnvDefault("LOG_LEVEL", "error"), "log level")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := logging.NewWithWriter(stderr, opts.logLevel)
	ctx = logging.IntoContext(ctx, log)

	store, closeStore, err := sessionStore(cfg, opts)
	if err != nil {
		fmt.Fprintf(stderr, "cartctl: %v\n", err)
		return 1
	}
	defer closeStore()

	app := &app{
		sessions: session.NewProvider(store, session.WithLogger(log)),
		client:   cartclient.New(opts.apiURL, cartclient.WithTimeout(opts.timeout)),
		opts:     opts,
		stdout:   stdout,
		stderr:   stderr,
		log:      log,
	}
	if err := app.exec(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			return 2
		}
		return 1
	}
	return 0
}

func sessionStore(cfg config.Config, opts options) (session.Store, func(), error) {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ttl := config.EnvDurationDefault("CART_SESSION_TTL", 0)
		return session.NewRedisStore(rdb, opts.profile, ttl), func() { _ = rdb.Close() }, nil
	}

	path := opts.sessionFile
	if path == "" {
		p, err := session.DefaultFilePath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	return session.NewFileStore(path), func() {}, nil
}

var errUsage = errors.New("usage")

type app struct {
	sessions *session.Provider
	client   *cartclient.Client
	opts     options
	stdout   io.Writer
	stderr   io.Writer
	log      *slog.Logger
}

func (a *app) exec(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	if cmd == "session" {
		return a.session(ctx, rest)
	}

	store := cartstate.NewStore()
	defer store.Close()

	var last cartstate.State
	cancel := store.Subscribe(func(s cartstate.State) { last = s })
	defer cancel()

	d := cartstate.NewDispatcher(a.client, a.sessions, store, toaster{w: a.stderr}, cartstate.Options{
		Optimistic: a.opts.optimistic,
		BulkClear:  a.opts.bulkClear,
	})
	if err := d.Load(ctx); err != nil {
		return err
	}

	var err error
	switch cmd {
	case "show":
	case "add":
		err = a.add(ctx, d, rest)
	case "set":
		err = a.set(ctx, d, rest)
	case "rm":
		if len(rest) != 1 {
			return errUsage
		}
		err = d.Remove(ctx, rest[0])
	case "clear":
		if len(rest) != 0 {
			return errUsage
		}
		err = d.Clear(ctx)
	default:
		fmt.Fprintf(a.stderr, "cartctl: unknown command %q\n", cmd)
		return errUsage
	}
	if errors.Is(err, errUsage) {
		return err
	}

	render(a.stdout, last)
	return err
}

func (a *app) add(ctx context.Context, d *cartstate.Dispatcher, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	pid, err := strconv.ParseUint(args[0], 10, 0)
	if err != nil || pid == 0 {
		fmt.Fprintf(a.stderr, "cartctl: invalid product id %q\n", args[0])
		return errUsage
	}
	qty := 1
	if len(args) == 2 {
		if qty, err = strconv.Atoi(args[1]); err != nil {
			fmt.Fprintf(a.stderr, "cartctl: invalid quantity %q\n", args[1])
			return errUsage
		}
	}
	_, err = d.Add(ctx, uint(pid), qty)
	return err
}

func (a *app) set(ctx context.Context, d *cartstate.Dispatcher, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(a.stderr, "cartctl: invalid quantity %q\n", args[1])
		return errUsage
	}
	_, err = d.UpdateQuantity(ctx, args[0], qty)
	return err
}

func (a *app) session(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "reset":
		if err := a.sessions.Clear(ctx); err != nil {
			fmt.Fprintf(a.stderr, "cartctl: %v\n", err)
			return err
		}
	default:
		return errUsage
	}

	id := a.sessions.SessionID(ctx)
	if a.sessions.Degraded() {
		a.log.Warn("session_not_persisted", "session_id", id)
	}
	fmt.Fprintln(a.stdout, id)
	return nil
}
