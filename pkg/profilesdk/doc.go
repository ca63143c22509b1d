/*
Package profilesdk is a small client for the profiles service.

A Client keeps the session cookie in its own cookie jar, so a sign-in is
followed by authenticated calls without any token handling by the caller:

	client, err := profilesdk.NewClient("https://profiles.example.com")
	if err != nil {
		return err
	}

	if _, err := client.SignIn(ctx, "ada@example.com", "secret1", "/"); err != nil {
		var apiErr *profilesdk.APIError
		if errors.As(err, &apiErr) {
			// apiErr.Message carries the server message, e.g. "Incorrect Password"
		}
		return err
	}

	user, err := client.GetProfile(ctx)

The response types are shared with the server handlers so both sides agree
on the wire shapes.
*/
package profilesdk
