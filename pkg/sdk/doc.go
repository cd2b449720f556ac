// Package seoscribe provides a Go client for the seoscribe content backend.
//
// The client keeps the signed-in session in local storage, mirrors the plan
// quota so callers can gate work before a request is sent, and exposes the
// article and tool endpoints with the same check → request → reconcile flow
// the app shell uses.
//
// # Sign-in
//
//	client, _ := seoscribe.New(ctx,
//	    seoscribe.WithOrigin("https://app.example.com"),
//	    seoscribe.WithSQLite("seoscribe.db"),
//	)
//	defer client.Close()
//
//	_, _ = client.Auth().SendMagicLink(ctx, "me@example.com", "http://localhost:8080/auth/callback")
//	// after the redirect lands:
//	_, _, _ = client.Session().CaptureURL(ctx, redirectURL)
//
// # Generation
//
//	if !client.Quota().CanGenerate() {
//	    return seoscribe.ErrQuotaExceeded
//	}
//	a, err := client.Articles().Generate(ctx, seoscribe.DraftRequest{Topic: "home espresso"})
//
// Every call reconciles the quota mirror with the backend afterwards, so
// Quota().Status() reflects the server's numbers once the call returns.
package seoscribe
