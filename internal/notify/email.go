// Package notify delivers best-effort schedule change notifications over
// Amazon SES. A notifier failure is logged by the caller and never fails the
// override application.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/famboard/famboard-go/internal/models"
	"github.com/famboard/famboard-go/internal/schedule"
	"github.com/google/uuid"
)

// MemberDirectory resolves member IDs to member records so the notifier can
// address emails.
type MemberDirectory interface {
	ListMembers(ctx context.Context, familyID uuid.UUID) (map[uuid.UUID]models.Member, error)
}

// EmailNotifier sends override notifications via Amazon SES. With no from
// address configured it becomes a no-op that only logs.
type EmailNotifier struct {
	client     *sesv2.Client
	directory  MemberDirectory
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailNotifier builds the notifier. An empty fromEmail disables sending.
func NewEmailNotifier(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, directory MemberDirectory) (*EmailNotifier, error) {
	if fromEmail == "" {
		log.Println("Email notifications disabled: SES_FROM_EMAIL not configured")
		return &EmailNotifier{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email notifications enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailNotifier{
		client:     sesv2.NewFromConfig(cfg),
		directory:  directory,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// NotifyTaskReassigned emails the members affected by one applied override.
func (n *EmailNotifier) NotifyTaskReassigned(ctx context.Context, familyID uuid.UUID, event schedule.ReassignmentEvent) error {
	if !n.enabled {
		log.Printf("Skipping notification (disabled): %s %s on %s", event.Action, event.TaskName, event.Date)
		return nil
	}

	members, err := n.directory.ListMembers(ctx, familyID)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}

	recipients := recipientEmails(members, event)
	if len(recipients) == 0 {
		return nil
	}

	subject, body := composeMessage(members, event)
	if n.appBaseURL != "" {
		body += fmt.Sprintf("\n\nView the schedule: %s/schedule", n.appBaseURL)
	}

	_, err = n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)),
		Destination:      &types.Destination{ToAddresses: recipients},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// recipientEmails picks the members worth telling: whoever gains the task
// and whoever loses it.
func recipientEmails(members map[uuid.UUID]models.Member, event schedule.ReassignmentEvent) []string {
	seen := map[string]bool{}
	emails := []string{}
	for _, id := range []*uuid.UUID{event.NewMemberID, event.OriginalMemberID} {
		if id == nil {
			continue
		}
		member, ok := members[*id]
		if !ok || member.Email == nil || *member.Email == "" {
			continue
		}
		if !seen[*member.Email] {
			seen[*member.Email] = true
			emails = append(emails, *member.Email)
		}
	}
	return emails
}

func composeMessage(members map[uuid.UUID]models.Member, event schedule.ReassignmentEvent) (string, string) {
	actor := event.ActingName
	if actor == "" {
		actor = "A family admin"
	}

	name := func(id *uuid.UUID) string {
		if id == nil {
			return "unassigned"
		}
		if m, ok := members[*id]; ok {
			return m.DisplayName()
		}
		return "a family member"
	}

	switch event.Action {
	case models.OverrideActionAdd:
		return fmt.Sprintf("Task added: %s on %s", event.TaskName, event.Date),
			fmt.Sprintf("%s added the task %q on %s, assigned to %s.",
				actor, event.TaskName, event.Date, name(event.NewMemberID))
	case models.OverrideActionRemove:
		return fmt.Sprintf("Task removed: %s on %s", event.TaskName, event.Date),
			fmt.Sprintf("%s removed the task %q from %s.", actor, event.TaskName, event.Date)
	default:
		return fmt.Sprintf("Task reassigned: %s on %s", event.TaskName, event.Date),
			fmt.Sprintf("%s reassigned the task %q on %s from %s to %s.",
				actor, event.TaskName, event.Date, name(event.OriginalMemberID), name(event.NewMemberID))
	}
}
