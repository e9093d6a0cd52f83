package cli

import (
	"fmt"
	"os"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

const authMenu = `
=== GophMail ===
1. Register
2. Login
3. Quit`

const mainMenu = `
=== GophMail (%s) ===
1. Read mail
2. Send mail
3. Mailbox statistics
4. Logout`

// Run drives the menu loop until the user quits. Anonymous users see the
// authentication menu; logged-in users see the mail menu.
func (a *App) Run() error {

	for {
		if !a.isLoggedIn() {
			printlnFn(authMenu)
			choice, err := GetSimpleText(a.reader, "Enter your choice [1-3]:", os.Stdout)
			if err != nil {
				return err
			}

			switch choice {
			case "1":
				a.register()
			case "2":
				a.login()
			case "3":
				return a.quit()
			default:
				printlnFn("Unknown choice:", choice)
			}
		} else {
			printlnFn(fmt.Sprintf(mainMenu, a.username))
			choice, err := GetSimpleText(a.reader, "Enter your choice [1-4]:", os.Stdout)
			if err != nil {
				return err
			}

			switch choice {
			case "1":
				a.readEmail()
			case "2":
				a.sendEmail()
			case "3":
				a.checkStats()
			case "4":
				a.logout()
			default:
				printlnFn("Unknown choice:", choice)
			}
		}
	}
}

// quit notifies the server with BYE and closes the connection.
func (a *App) quit() error {
	printlnFn("Bye!")
	return a.service.Bye()
}
