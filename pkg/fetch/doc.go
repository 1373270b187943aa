// Package fetch downloads single remote files to the local filesystem.
//
// # Overview
//
// [Client] wraps an http.Client that is optionally routed through a proxy.
// Proxy settings and credentials are passed in explicitly through [Options];
// nothing here reads the environment or mutates process-wide state.
//
//	c, err := fetch.NewClient(fetch.Options{
//	    Proxy:       &fetch.Proxy{Type: "http", Host: "proxy.local", Port: 3128},
//	    Credentials: &fetch.Credentials{Username: "me", Password: "secret"},
//	})
//	d, err := c.Download(ctx, "https://services.gradle.org/distributions/gradle-8.5-bin.zip", dest)
//
// # Downloads
//
// [Client.Download] streams the response body to a uniquely named staging
// file next to the destination and renames it into place once the whole body
// has been received. The sha256 digest of the body is computed on the fly and
// reported in the [Download] result.
//
// Downloads are never retried and have no overall timeout: a distribution
// archive can be hundreds of megabytes.
package fetch
