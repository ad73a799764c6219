// Package main provides the entry point of biluochun, the team management backend.
// Users sign in through an OpenID Connect provider, form teams they share with
// invite codes and maintain profile pictures and team icons. Everything is served
// as a json api by a fiber web server, persisted with gorm in mysql, postgres or sqlite.
package main
