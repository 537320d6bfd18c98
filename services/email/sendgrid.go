package emailsvc

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/alramz/cxdash/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridService struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) core.EmailService {
	from := conf.DefaultFromEmail()
	return &sendgridService{
		key:        conf.SendgridApiKey,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		pending.Add(1)
		go func() {
			defer pending.Done()
			if err := msg.Render(); err != nil {
				svc.logger.Error(fmt.Sprintf("rendering email: %v", err), err)
				return
			}
			if msg.HasRecipients() && (msg.HasContent() || msg.HasAttachments()) {
				svc.send(*msg)
			}
		}()
	}
}

// prepare builds the SendGrid payload of msg.
// Messages carrying attachments (KPI reports) get one personalization per recipient,
// so that report recipients do not see each other. Cc and Bcc go with the first one.
func (svc sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)

	groups := [][]mail.Address{msg.To}
	if msg.HasAttachments() && len(msg.To) > 1 {
		groups = groups[:0]
		for _, to := range msg.To {
			groups = append(groups, []mail.Address{to})
		}
	}
	for i, tos := range groups {
		p := sgmail.NewPersonalization()
		p.Subject = svc.subjPrefix + msg.Subject
		for _, to := range tos {
			p.AddTos(svc.getSGEmail(to))
		}
		if i == 0 {
			for _, cc := range msg.Cc {
				p.AddCCs(svc.getSGEmail(cc))
			}
			for _, bcc := range msg.Bcc {
				p.AddBCCs(svc.getSGEmail(bcc))
			}
		}
		m.AddPersonalizations(p)
	}
	if msg.TemplateName != "" {
		m.AddCategories(msg.TemplateName)
	}

	m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}

	for _, a := range msg.Attachments {
		m.AddAttachment(svc.getSGAttachment(a))
	}

	return m
}

func (svc sendgridService) getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

// getSGAttachment maps at, whose content is already base64 encoded, to a SendGrid attachment.
func (svc sendgridService) getSGAttachment(at core.Attachment) *sgmail.Attachment {
	ct := at.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &sgmail.Attachment{
		Content:     at.Content.String(),
		Type:        ct,
		Name:        at.Filename,
		Filename:    at.Filename,
		Disposition: "attachment",
	}
}

func (svc sendgridService) send(msg core.EmailMessage) {
	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending email: %v", err), err)
	} else if res.StatusCode >= http.StatusBadRequest {
		svc.logger.Error(fmt.Sprintf("sending email - status: %d - Body: %s", res.StatusCode, res.Body))
	}
}
