// Package client implements a high-level Go client for the storefront session.
//
// It wires the credential store, the authorized transport, the session manager,
// the synchronizer and the route guard into one value and adds:
//   - Sign-in, sign-up and sign-out that keep credential and shared state consistent.
//   - Transparent access credential refresh with a single refresh in flight.
//   - Profile, avatar and password operations that update the shared state.
//   - Route guard middleware for protected HTTP handlers.
//
// Example:
//
//	cli, _ := client.New("https://shop.example.com/api", client.WithStore(store.NewFileStore(path)))
//	view, _ := cli.SignIn(ctx, &api.SignInRequest{Email: email, Password: password})
//	fmt.Println(view.Profile.Name, view.Cart.Count())
package client
