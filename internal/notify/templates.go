package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

func formatTimestamp(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}

func welcomeMessage(agent *domain.Agent, initialPassword string) (string, string) {
	subject := "Welcome to the Support Desk"
	body := fmt.Sprintf(`Hello %s,

Welcome to the support desk. Your account has been created successfully.

Your login credentials:
Email: %s
Password: %s

Please change your password after the first login.

Best regards,
The Support Team`, agent.FirstName, agent.Email, initialPassword)
	return subject, body
}

func ticketCreatedMessage(ticket *domain.Ticket, agent *domain.Agent) (string, string) {
	subject := fmt.Sprintf("New Support Ticket Assigned - #%s", ticket.ID)
	body := fmt.Sprintf(`Hello %s,

A new support ticket has been assigned to you:

Ticket ID: %s
Subject: %s
Priority: %s
Category: %s
Created: %s

Please log in to the support platform to view the details and respond to this ticket.

Best regards,
The Support Team`,
		agent.FirstName, ticket.ID, ticket.Subject, ticket.Priority, ticket.Category,
		formatTimestamp(ticket.LaunchedAt))
	return subject, body
}

func ticketOpenedMessage(ticket *domain.Ticket) (string, string) {
	subject := fmt.Sprintf("Support Ticket Created Successfully - Reference #%s", ticket.ID)

	var body strings.Builder
	body.WriteString("Dear Valued Customer,\n\n")
	body.WriteString("Thank you for contacting support. We have received and processed your support request.\n\n")
	body.WriteString("TICKET DETAILS:\n")
	fmt.Fprintf(&body, "Ticket Reference: #%s\n", ticket.ID)
	fmt.Fprintf(&body, "Subject: %s\n", ticket.Subject)
	fmt.Fprintf(&body, "Description: %s\n", ticket.Content)
	fmt.Fprintf(&body, "Current Status: %s\n", ticket.Status)
	fmt.Fprintf(&body, "Date Created: %s\n\n", formatTimestamp(ticket.LaunchedAt))
	body.WriteString("Our support team has been notified and your ticket will be prioritized based on urgency. ")
	body.WriteString("You will receive email updates as your ticket progresses. ")
	fmt.Fprintf(&body, "Please reference ticket #%s in any future correspondence.\n\n", ticket.ID)
	body.WriteString("Best regards,\nThe Support Team")
	return subject, body.String()
}

func ticketUpdatedMessage(ticket *domain.Ticket, agent *domain.Agent) (string, string) {
	subject := fmt.Sprintf("Support Ticket Updated - #%s", ticket.ID)

	servedAt := ticket.UpdatedAt
	if ticket.ServedAt != nil {
		servedAt = *ticket.ServedAt
	}
	body := fmt.Sprintf(`Hello %s,

A support ticket assigned to you has been updated:

Ticket ID: %s
Subject: %s
Status: %s
Last Updated: %s

Please log in to the support platform to view the details.

Best regards,
The Support Team`,
		agent.FirstName, ticket.ID, ticket.Subject, ticket.Status, formatTimestamp(servedAt))
	return subject, body
}

func ticketClosedMessage(ticket *domain.Ticket, reply string) (string, string) {
	subject := fmt.Sprintf("Support Ticket Resolved - Reference #%s", ticket.ID)

	closedAt := ticket.UpdatedAt
	if ticket.ServedAt != nil {
		closedAt = *ticket.ServedAt
	}

	var body strings.Builder
	body.WriteString("Dear Valued Customer,\n\n")
	body.WriteString("Your support ticket has been resolved.\n\n")
	body.WriteString("TICKET SUMMARY:\n")
	fmt.Fprintf(&body, "Ticket Reference: #%s\n", ticket.ID)
	fmt.Fprintf(&body, "Subject: %s\n", ticket.Subject)
	fmt.Fprintf(&body, "Final Status: %s\n", ticket.Status)
	fmt.Fprintf(&body, "Priority Level: %s\n", ticket.Priority)
	fmt.Fprintf(&body, "Resolution Date: %s\n\n", formatTimestamp(closedAt))
	if strings.TrimSpace(reply) != "" {
		body.WriteString("RESOLUTION DETAILS:\n")
		body.WriteString(strings.TrimSpace(reply))
		body.WriteString("\n\n")
	}
	fmt.Fprintf(&body, "If you have follow-up questions related to this issue, please reply to this email with reference #%s. ", ticket.ID)
	body.WriteString("For new or unrelated issues, please submit a new support ticket.\n\n")
	body.WriteString("Best regards,\nThe Support Team")
	return subject, body.String()
}

func passwordResetMessage(code string) (string, string) {
	subject := "Password Reset Request - Support Desk"
	body := fmt.Sprintf(`Hello,

We received a request to reset your support desk password.

Your one-time reset code is: %s

The code expires in 15 minutes. If you did not request a password reset,
please ignore this email.

Best regards,
The Support Team`, code)
	return subject, body
}
