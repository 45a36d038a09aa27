// Package redirect builds the targets for the /redirect/ family of routes.
package redirect
