package cli

import (
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// register prompts for credentials and attempts to create a new account.
// Registration implies login: on OK the server has already bound the
// session, so the username is recorded locally too.
func (a *App) register() {
	username, err := getSimpleText(a.reader, "Enter your username:", os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}

	if err := a.service.Register(username, password); err != nil {
		printlnFn(err)
		return
	}

	a.username = username
	printlnFn("Account created.")
}

// login prompts for credentials and authenticates the session.
func (a *App) login() {
	username, err := getSimpleText(a.reader, "Enter your username:", os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}

	if err := a.service.Login(username, password); err != nil {
		printlnFn(err)
		return
	}

	a.username = username
}

// logout tells the server to clear the session and forgets the local
// username.
func (a *App) logout() {
	if err := a.service.Logout(); err != nil {
		printlnFn(err)
		return
	}
	a.username = ""
}
