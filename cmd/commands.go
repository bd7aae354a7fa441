package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtroode/tourdesk/internal/apiclient"
	"github.com/dtroode/tourdesk/internal/model"
	"github.com/dtroode/tourdesk/internal/service"
)

const mediaScheme = "s3://"

const usage = `usage: tourdesk <command> [arguments]

commands:
  login -email <email> -password <password>
  logout
  whoami
  tours list [-force]
  tours get <id>
  services list [-force]
  services get <id>
  itineraries list [-force]
  itineraries get <id>
  quote -tour <id> -name <name> -email <email> [-travelers n]
  pay create -quote <id> -amount <n> [-currency code]
  pay get <id>
  pay confirm <id>
  blog [slug]
  page <slug>
  upload -tour <id> [-count n] <path | s3://key>
  get <path>
  version
`

var errUsage = errors.New("invalid usage")

type app struct {
	api         *apiclient.Client
	auth        *service.Auth
	tours       *service.Catalog[model.Tour]
	services    *service.Catalog[model.Service]
	itineraries *service.Catalog[model.Itinerary]
	quotes      *service.Quotes
	payments    *service.Payments
	blog        *service.Blog
	content     *service.Content
	media       func(ctx context.Context) (model.MediaSource, error)
	out         io.Writer
}

// run executes one command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	err := a.dispatch(ctx, args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		fmt.Fprint(os.Stderr, usage)
		return 2
	case errors.Is(err, model.ErrSessionExpired), errors.Is(err, model.ErrNotAuthenticated):
		fmt.Fprintln(os.Stderr, "not signed in, run: tourdesk login")
		return 1
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "tours":
		return catalogCmd(ctx, a, "tours", a.tours, rest)
	case "services":
		return catalogCmd(ctx, a, "services", a.services, rest)
	case "itineraries":
		return catalogCmd(ctx, a, "itineraries", a.itineraries, rest)
	case "quote":
		return a.quote(ctx, rest)
	case "pay":
		return a.pay(ctx, rest)
	case "blog":
		return a.blogCmd(ctx, rest)
	case "page":
		if len(rest) != 1 {
			return errUsage
		}
		return a.output(payload(a.content.Page(ctx, rest[0])))
	case "upload":
		return a.upload(ctx, rest)
	case "get":
		if len(rest) != 1 {
			return errUsage
		}
		return a.output(payload(a.api.Get(ctx, rest[0])))
	case "version":
		logAppVersion()
		return nil
	default:
		return errUsage
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("TOURDESK_PASSWORD"), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errUsage
	}

	env, err := a.auth.Login(ctx, model.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if !env.Success {
		return failure(env.Status, env.Message)
	}
	return a.print(env.Data)
}

func (a *app) whoami(ctx context.Context) error {
	session, err := a.auth.Session(ctx)
	if err != nil {
		return err
	}

	env, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}
	if !env.Success {
		return failure(env.Status, env.Message)
	}

	return a.print(struct {
		User    model.User    `json:"user"`
		Session model.Session `json:"session"`
	}{env.Data, session})
}

func catalogCmd[T any](ctx context.Context, a *app, name string, c *service.Catalog[T], args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet(name+" list", flag.ContinueOnError)
		force := fs.Bool("force", false, "bypass the cache")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.output(payload(c.List(ctx, *force)))
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		return a.output(payload(c.Get(ctx, args[1])))
	default:
		return errUsage
	}
}

func (a *app) quote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	tourID := fs.String("tour", "", "tour id")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "contact email")
	travelers := fs.Int("travelers", 1, "number of travelers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tourID == "" || *name == "" || *email == "" {
		return errUsage
	}

	return a.output(payload(a.quotes.Request(ctx, model.Quote{
		TourID:    *tourID,
		FullName:  *name,
		Email:     *email,
		Travelers: *travelers,
	})))
}

func (a *app) pay(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("pay create", flag.ContinueOnError)
		quoteID := fs.String("quote", "", "quote id")
		amount := fs.Float64("amount", 0, "amount to charge")
		currency := fs.String("currency", "USD", "ISO 4217 currency code")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *quoteID == "" || *amount <= 0 {
			return errUsage
		}
		return a.output(payload(a.payments.Create(ctx, model.Payment{
			QuoteID:  *quoteID,
			Amount:   *amount,
			Currency: strings.ToUpper(*currency),
		})))
	case "get":
		if len(args) != 2 {
			return errUsage
		}
		return a.output(payload(a.payments.Get(ctx, args[1])))
	case "confirm":
		if len(args) != 2 {
			return errUsage
		}
		return a.output(payload(a.payments.Confirm(ctx, args[1])))
	default:
		return errUsage
	}
}

func (a *app) blogCmd(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		return a.output(payload(a.blog.List(ctx)))
	case 1:
		return a.output(payload(a.blog.Get(ctx, args[0])))
	default:
		return errUsage
	}
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	tourID := fs.String("tour", "", "tour id")
	count := fs.Int("count", 1, "number of images in this batch")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tourID == "" || fs.NArg() != 1 {
		return errUsage
	}

	file, closeFile, err := a.openFile(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeFile()

	fields := map[string]string{"imageCount": fmt.Sprint(*count)}
	return a.output(payload(a.tours.UploadImage(ctx, *tourID, file, fields)))
}

// openFile opens a local path or an s3://key object from the media bucket.
func (a *app) openFile(ctx context.Context, src string) (model.File, func(), error) {
	if key, ok := strings.CutPrefix(src, mediaScheme); ok {
		media, err := a.media(ctx)
		if err != nil {
			return model.File{}, nil, err
		}
		rc, err := media.Open(ctx, key)
		if err != nil {
			return model.File{}, nil, err
		}
		return model.File{Name: filepath.Base(key), Content: rc}, func() { _ = rc.Close() }, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return model.File{}, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return model.File{Name: filepath.Base(src), Content: f}, func() { _ = f.Close() }, nil
}

// payload unwraps a successful envelope and turns any other outcome into an
// error.
func payload[T any](env *model.Envelope[T], err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, failure(env.Status, env.Message)
	}
	return env.Data, nil
}

func (a *app) output(v any, err error) error {
	if err != nil {
		return err
	}
	return a.print(v)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func failure(status int, message string) error {
	if message == "" {
		return fmt.Errorf("request failed with status %d", status)
	}
	return fmt.Errorf("request failed with status %d: %s", status, message)
}
