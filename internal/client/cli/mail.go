package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/gophmail/internal/protocol"
)

const emailDisplay = `
From: %s
To: %s
Subject: %s
Date: %s

%s`

const statsDisplay = `Messages: %d
Mailbox size: %d bytes`

// readEmail lists the inbox, asks for a choice and displays the selected
// message. An empty inbox returns to the menu without a second prompt.
func (a *App) readEmail() {
	list, err := a.service.Inbox()
	if err != nil {
		printlnFn(err)
		return
	}

	if len(list) == 0 {
		printlnFn("No mail to read.")
		return
	}

	for _, line := range list {
		printlnFn(line)
	}

	raw, err := getSimpleText(a.reader, fmt.Sprintf("Enter your choice [1-%d]:", len(list)), os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}
	choice, err := strconv.Atoi(raw)
	if err != nil {
		printlnFn("Invalid choice:", raw)
		return
	}

	mail, err := a.service.Email(choice)
	if err != nil {
		printlnFn(err)
		return
	}

	printlnFn(fmt.Sprintf(emailDisplay, mail.Sender, mail.Destination, mail.Subject, mail.Date, mail.Content))
}

// sendEmail prompts for the destination, subject and body and submits the
// message. The body ends with a single '.' on its own line.
func (a *App) sendEmail() {
	destination, err := getSimpleText(a.reader, "Enter the destination address:", os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}

	subject, err := getSimpleText(a.reader, "Enter the subject:", os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}

	content, err := GetMultiline(a.reader, "Enter the message body:", os.Stdout)
	if err != nil {
		printlnFn(err)
		return
	}

	// The sender field is informational; the server stamps the
	// authoritative address from the authenticated session.
	email := protocol.EmailPayload{
		Sender:      a.username,
		Destination: destination,
		Subject:     subject,
		Date:        protocol.CurrentUTCTime(),
		Content:     content,
	}

	if err := a.service.Send(email); err != nil {
		printlnFn(err)
		return
	}
	printlnFn("Message sent.")
}

// checkStats fetches and displays the mailbox statistics.
func (a *App) checkStats() {
	stats, err := a.service.Stats()
	if err != nil {
		printlnFn(err)
		return
	}
	printlnFn(fmt.Sprintf(statsDisplay, stats.Count, stats.Size))
}
