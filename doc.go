// Package storefront provides high-level helpers for working with a storefront
// session.
//
// The package glues the session core defined in the client packages with concrete
// credential stores, cookie jars and logging. ClientOptions can be populated from
// CLI flags, JSON or STOREFRONT_* environment variables, and NewClient returns a
// fully configured client.
//
// Example:
//
//	options := &storefront.ClientOptions{URL: "https://shop.example.com/api"}
//	_ = options.LoadEnv()
//	cli, _ := storefront.NewClient(options)
//	view, _ := cli.SignIn(ctx, &api.SignInRequest{Email: email, Password: password})
package storefront
