package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/scy"
	"github.com/viant/scy/cred"
	"github.com/viant/storefront"
	"github.com/viant/storefront/client"
	"github.com/viant/storefront/client/api"
	"github.com/viant/storefront/client/auth/mock"
	"github.com/viant/storefront/client/guard"
	"github.com/viant/storefront/client/session"
	"github.com/viant/storefront/client/state"
	"github.com/viant/storefront/internal/metrics"
)

// ErrAccessDenied is returned by the admin command when the viewer is not an admin.
var ErrAccessDenied = errors.New("access denied")

// Run runs the command line writing results to stdout.
func Run(args []string) error {
	return New(os.Stdout).Run(context.Background(), args)
}

// Runner executes commands.
type Runner struct {
	out io.Writer
	fs  afs.Service
}

// New creates a runner writing results to out.
func New(out io.Writer) *Runner {
	return &Runner{out: out, fs: afs.New()}
}

// Run parses args and executes the selected command.
func (r *Runner) Run(ctx context.Context, args []string) error {
	options := &Options{}
	if err := options.LoadEnv(); err != nil {
		return err
	}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}
	if parser.Active == nil {
		return errors.New("command was empty")
	}
	if parser.Active.Name == "serve-mock" {
		return r.serveMock(options)
	}
	cli, err := storefront.NewClient(&options.ClientOptions)
	if err != nil {
		return err
	}
	return r.execute(ctx, parser.Active.Name, options, cli)
}

func (r *Runner) execute(ctx context.Context, command string, options *Options, cli *client.Client) error {
	switch command {
	case "signin":
		request, err := r.signInRequest(ctx, &options.SignIn)
		if err != nil {
			return err
		}
		view, err := cli.SignIn(ctx, request)
		if err != nil {
			return err
		}
		return r.print(view.Profile)
	case "signup":
		return cli.SignUp(ctx, &api.SignUpRequest{Name: options.SignUp.Name, Email: options.SignUp.Email, Password: options.SignUp.Password})
	case "signout":
		return cli.SignOut(ctx)
	case "whoami":
		view, err := r.sync(ctx, cli)
		if err != nil {
			return err
		}
		return r.print(view.Profile)
	case "cart":
		view, err := r.sync(ctx, cli)
		if err != nil {
			return err
		}
		return r.print(view.Cart)
	case "update-profile":
		if _, err := r.sync(ctx, cli); err != nil {
			return err
		}
		view, err := cli.UpdateProfile(ctx, options.UpdateProfile.patch())
		if err != nil {
			return err
		}
		return r.print(view.Profile)
	case "avatar":
		if _, err := r.sync(ctx, cli); err != nil {
			return err
		}
		content, err := r.fs.DownloadWithURL(ctx, options.Avatar.Location)
		if err != nil {
			return fmt.Errorf("failed to read avatar: %w", err)
		}
		view, err := cli.UpdateAvatar(ctx, path.Base(options.Avatar.Location), bytes.NewReader(content))
		if err != nil {
			return err
		}
		return r.print(map[string]string{"avatar": view.Profile.Avatar})
	case "change-password":
		return cli.ChangePassword(ctx, &api.ChangePasswordRequest{CurrentPassword: options.ChangePassword.Current, NewPassword: options.ChangePassword.New})
	case "forgot-password":
		return cli.ForgotPassword(ctx, options.ForgotPassword.Email)
	case "reset-password":
		return cli.ResetPassword(ctx, options.ResetPassword.Token, options.ResetPassword.Password)
	case "admin":
		decision := cli.Check(ctx, state.RoleAdmin)
		if err := r.print(map[string]string{"decision": decision.String()}); err != nil {
			return err
		}
		if decision != guard.Authorized {
			return ErrAccessDenied
		}
		return nil
	}
	return fmt.Errorf("unsupported command: %v", command)
}

func (r *Runner) sync(ctx context.Context, cli *client.Client) (session.View, error) {
	if !cli.View(ctx).Authenticated {
		return session.View{}, session.ErrSignedOut
	}
	if err := cli.Sync(ctx); err != nil {
		return session.View{}, err
	}
	view := cli.View(ctx)
	if !view.Authenticated {
		return session.View{}, session.ErrSignedOut
	}
	return view, nil
}

func (r *Runner) signInRequest(ctx context.Context, options *SignIn) (*api.SignInRequest, error) {
	ret := &api.SignInRequest{Email: options.Email, Password: options.Password}
	if options.SecretURL == "" {
		return ret, nil
	}
	secrets := scy.New()
	resource := scy.NewResource(&cred.Basic{}, options.SecretURL, options.Key)
	secret, err := secrets.Load(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("failed to load secret: %w", err)
	}
	basic, ok := secret.Target.(*cred.Basic)
	if !ok {
		return nil, fmt.Errorf("unexpected secret type: %T", secret.Target)
	}
	if ret.Email == "" {
		ret.Email = basic.Username
	}
	ret.Password = basic.Password
	return ret, nil
}

func (u *UpdateProfile) patch() *state.ProfilePatch {
	ret := &state.ProfilePatch{}
	if u.Name != "" {
		ret.Name = &u.Name
	}
	if u.Phone != "" {
		ret.Phone = &u.Phone
	}
	if u.Province != "" || u.District != "" || u.Ward != "" || u.Street != "" {
		ret.Address = &state.Address{Province: u.Province, District: u.District, Ward: u.Ward, Street: u.Street}
	}
	return ret
}

func (r *Runner) print(value interface{}) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// serveMock runs the demo API with seeded accounts and a metrics endpoint.
func (r *Runner) serveMock(options *Options) error {
	logger, err := options.Logger()
	if err != nil {
		return err
	}
	service := mock.New()
	service.AddUser(state.Profile{Name: "An", Email: "an@example.com", Role: state.RoleUser}, "secret1")
	service.AddUser(state.Profile{Name: "Admin", Email: "admin@example.com", Role: state.RoleAdmin}, "secret1")
	service.SetCart("an@example.com", state.Cart{Items: []state.CartItem{{ProductID: "tee-01", Name: "T-shirt", Price: 199000, Quantity: 2}}})
	router := chi.NewRouter()
	router.Handle("/metrics", metrics.Handler())
	router.Mount("/", service.Handler())
	logger.WithFields(logrus.Fields{"component": "mock", "addr": options.ServeMock.Addr}).Info("serving demo storefront API")
	return http.ListenAndServe(options.ServeMock.Addr, router)
}
