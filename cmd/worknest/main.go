package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/worknest/worknest-go/api"
	"github.com/worknest/worknest-go/auth"
	"github.com/worknest/worknest-go/internal/config"
	"github.com/worknest/worknest-go/internal/utils"
	"github.com/worknest/worknest-go/jobs"
	"github.com/worknest/worknest-go/oauth"
	"github.com/worknest/worknest-go/payment"
	"github.com/worknest/worknest-go/session"
	"github.com/worknest/worknest-go/tokenstore"
	"github.com/worknest/worknest-go/tokenstore/redisstore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("worknest: %s\n", err)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 || args[0] == "help" {
		usage()
		return nil
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return app.dispatch(ctx, args[0], args[1:])
}

type app struct {
	session  *session.Manager
	auth     *auth.Client
	oauth    *oauth.Client
	jobs     *jobs.Client
	payments *payment.Client
	store    tokenstore.Store
}

func newApp() (*app, error) {
	var apiCfg config.APIConfig
	if err := config.Load(&apiCfg); err != nil {
		return nil, err
	}
	var googleCfg config.GoogleOAuthConfig
	if err := config.Load(&googleCfg); err != nil {
		return nil, err
	}
	var githubCfg config.GitHubOAuthConfig
	if err := config.Load(&githubCfg); err != nil {
		return nil, err
	}
	var storageCfg config.StorageConfig
	if err := config.Load(&storageCfg); err != nil {
		return nil, err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).With().Timestamp().Logger()

	store, err := newStore(storageCfg)
	if err != nil {
		return nil, err
	}

	apiClient := api.New(apiCfg.BaseURL, api.WithLogger(logger))
	authClient := auth.New(apiClient, store, auth.WithLogger(logger))

	oauthOpts := []oauth.Option{
		oauth.WithLogger(logger),
		oauth.WithTimeout(googleCfg.Timeout),
		oauth.WithCallbackAddr(googleCfg.CallbackAddr),
	}
	if googleCfg.ClientID != "" {
		oauthOpts = append(oauthOpts, oauth.WithGoogle(oauth.GoogleConfig{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			Scopes:       googleCfg.Scopes,
			IssuerURL:    googleCfg.IssuerURL,
		}))
	}
	if githubCfg.ClientID != "" {
		oauthOpts = append(oauthOpts, oauth.WithGitHub(oauth.GitHubConfig{
			ClientID:     githubCfg.ClientID,
			ClientSecret: githubCfg.ClientSecret,
			Scopes:       githubCfg.Scopes,
		}))
	}
	oauthClient := oauth.New(apiClient, authClient, oauthOpts...)

	return &app{
		session:  session.NewManager(authClient, oauthClient, store, session.WithLogger(logger)),
		auth:     authClient,
		oauth:    oauthClient,
		jobs:     jobs.NewClient(apiClient, authClient),
		payments: payment.NewClient(apiClient, authClient, store, logger),
		store:    store,
	}, nil
}

func newStore(cfg config.StorageConfig) (tokenstore.Store, error) {
	if cfg.RedisURL != "" {
		return redisstore.FromURL(cfg.RedisURL, "")
	}
	path := cfg.Path
	if path == "" {
		var err error
		if path, err = tokenstore.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return tokenstore.NewFileStore(path), nil
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "signup":
		return a.signup(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "google-login":
		return a.providerLogin(ctx, a.session.LoginWithGoogle)
	case "github-login":
		return a.providerLogin(ctx, a.session.LoginWithGitHub)
	case "jobs":
		return a.jobsCmd(ctx, args)
	case "apply":
		return a.apply(ctx, args)
	case "saved":
		return a.saved(ctx)
	case "checkout":
		return a.checkout(ctx, args)
	case "activate":
		return a.activate(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: worknest login <email> <password>")
	}
	user, err := a.session.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return errors.New("usage: worknest signup <email> <password> <name>")
	}
	user, err := a.session.Signup(ctx, args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s! Account created for %s.\n", user.Name, user.Email)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	a.session.Initialize(ctx)
	state := a.session.Current()
	if !state.IsAuthenticated || state.User == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	return printJSON(state.User)
}

func (a *app) providerLogin(ctx context.Context, signIn func(context.Context) (*auth.User, error)) error {
	displayAppname("WorkNest")
	fmt.Println("Complete the sign-in in your browser...")
	user, err := signIn(ctx)
	if err != nil {
		return fmt.Errorf("sign-in %s: %w", a.oauth.Phase(), err)
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func (a *app) jobsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		params := jobs.ListParams{}
		if len(args) > 1 {
			params.Search = strings.Join(args[1:], " ")
		}
		page, err := a.jobs.List(ctx, params)
		if err != nil {
			return err
		}
		for _, job := range page.Results {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
				job.ID, job.JobTitle, utils.Value(job.CompanyDetails).Name, job.EmploymentType, job.Location)
		}
		fmt.Printf("%d job(s)\n", page.Count)
		return nil
	case "mine":
		posts, err := a.jobs.MyJobs(ctx)
		if err != nil {
			return err
		}
		return printJSON(posts)
	case "show":
		if len(args) < 2 {
			return errors.New("usage: worknest jobs show <id>")
		}
		job, err := a.jobs.Get(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(job)
	default:
		return fmt.Errorf("unknown jobs subcommand %q", args[0])
	}
}

func (a *app) apply(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: worknest apply <job-id> [cover letter]")
	}
	cover := ""
	if len(args) > 1 {
		cover = strings.Join(args[1:], " ")
	}
	if err := a.jobs.Apply(ctx, args[0], cover); err != nil {
		return err
	}
	fmt.Println("Application submitted.")
	return nil
}

func (a *app) saved(ctx context.Context) error {
	saved, err := a.jobs.SavedJobs(ctx)
	if err != nil {
		return err
	}
	return printJSON(saved)
}

func (a *app) checkout(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: worknest checkout <job-id> <listing-days>")
	}
	days := 0
	if _, err := fmt.Sscanf(args[1], "%d", &days); err != nil {
		return fmt.Errorf("listing-days must be a number: %w", err)
	}
	cs, err := a.payments.CreateCheckoutSession(ctx, args[0], days)
	if err != nil {
		return err
	}
	fmt.Printf("Open to pay: %s\n", cs.URL)
	return nil
}

func (a *app) activate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: worknest activate <job-id> <payment-session-id>")
	}
	if ok := payment.EnsureAuthentication(a.auth, a.store); !ok {
		return errors.New("sign in before activating a job")
	}
	if err := a.payments.ActivateJob(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("Job activated.")
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Println(`worknest - WorkNest job board client

Commands:
  login <email> <password>            Sign in with email and password
  signup <email> <password> <name>    Create an account
  logout                              Sign out
  whoami                              Show the current user
  google-login                        Sign in with Google
  github-login                        Sign in with GitHub
  jobs list [search]                  Browse job listings
  jobs mine                           List jobs you posted
  jobs show <id>                      Show one job
  apply <job-id> [cover letter]       Apply to a job
  saved                               List saved jobs
  checkout <job-id> <days>            Start a checkout session for a listing
  activate <job-id> <session-id>      Activate a job after payment`)
}
