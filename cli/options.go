package cli

import (
	"github.com/viant/storefront"
)

// Options defines global flags and commands.
type Options struct {
	storefront.ClientOptions

	SignIn         SignIn         `command:"signin" description:"sign in and store the session"`
	SignUp         SignUp         `command:"signup" description:"register an account"`
	SignOut        struct{}       `command:"signout" description:"sign out"`
	WhoAmI         struct{}       `command:"whoami" description:"print the signed-in profile"`
	Cart           struct{}       `command:"cart" description:"print the cart"`
	UpdateProfile  UpdateProfile  `command:"update-profile" description:"update name, phone or address"`
	Avatar         Avatar         `command:"avatar" description:"upload an avatar image"`
	ChangePassword ChangePassword `command:"change-password" description:"change the password and sign out"`
	ForgotPassword ForgotPassword `command:"forgot-password" description:"request a password reset link"`
	ResetPassword  ResetPassword  `command:"reset-password" description:"set a password with a reset token"`
	Admin          struct{}       `command:"admin" description:"check access to admin routes"`
	ServeMock      ServeMock      `command:"serve-mock" description:"run a demo storefront API"`
}

// SignIn defines sign-in flags; the password can come from a scy secret.
type SignIn struct {
	Email     string `short:"e" long:"email" description:"account email"`
	Password  string `short:"p" long:"password" description:"account password"`
	SecretURL string `long:"secret" description:"scy secret with username/password"`
	Key       string `long:"key" description:"secret encryption key" default:"blowfish://default"`
}

type SignUp struct {
	Name     string `short:"n" long:"name" description:"full name" required:"true"`
	Email    string `short:"e" long:"email" description:"account email" required:"true"`
	Password string `short:"p" long:"password" description:"account password" required:"true"`
}

// UpdateProfile defines profile fields; empty fields are left unchanged.
type UpdateProfile struct {
	Name     string `long:"name" description:"full name"`
	Phone    string `long:"phone" description:"phone number"`
	Province string `long:"province" description:"address province"`
	District string `long:"district" description:"address district"`
	Ward     string `long:"ward" description:"address ward"`
	Street   string `long:"street" description:"address street"`
}

type Avatar struct {
	Location string `short:"f" long:"file" description:"image location (any afs URL)" required:"true"`
}

type ChangePassword struct {
	Current string `long:"current" description:"current password" required:"true"`
	New     string `long:"new" description:"new password" required:"true"`
}

type ForgotPassword struct {
	Email string `short:"e" long:"email" description:"account email" required:"true"`
}

type ResetPassword struct {
	Token    string `short:"t" long:"token" description:"reset token" required:"true"`
	Password string `short:"p" long:"password" description:"new password" required:"true"`
}

// ServeMock defines the demo server flags.
type ServeMock struct {
	Addr string `short:"a" long:"addr" description:"listen address" default:":8080"`
}
