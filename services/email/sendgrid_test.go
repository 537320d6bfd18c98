package emailsvc

import (
	"bytes"
	"encoding/base64"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/tests"
)

func Test_sendgridService_prepare(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewSendgridService(conf, new(testutil.Logger)).(*sendgridService)
	boss := mail.Address{Name: "Boss", Address: "boss@test.com"}
	amy := mail.Address{Name: "Amy", Address: "amy@test.com"}
	audit := mail.Address{Address: "audit@test.com"}

	report := func() core.EmailMessage {
		msg := core.EmailMessage{
			To:           []mail.Address{boss, amy},
			Bcc:          []mail.Address{audit},
			Subject:      "KPI report (weekly) - 2024-05-06",
			TemplateName: "kpi_report",
			TextContent:  "report",
		}
		require.NoError(t, msg.Attach(bytes.NewBufferString("name,value\ncsat,80\n"), "kpi-weekly-2024-05-06.csv", "text/csv"))
		return msg
	}

	t.Run("report: one personalization per recipient", func(t *testing.T) {
		m := svc.prepare(report())

		require.Len(t, m.Personalizations, 2)
		for i, want := range []mail.Address{boss, amy} {
			p := m.Personalizations[i]
			require.Len(t, p.To, 1)
			assert.Equal(t, want.Address, p.To[0].Address)
			assert.Equal(t, "["+conf.AppName+"] KPI report (weekly) - 2024-05-06", p.Subject)
		}
		assert.Len(t, m.Personalizations[0].BCC, 1)
		assert.Empty(t, m.Personalizations[1].BCC)
		assert.Equal(t, []string{"kpi_report"}, m.Categories)

		require.Len(t, m.Attachments, 1)
		at := m.Attachments[0]
		assert.Equal(t, "kpi-weekly-2024-05-06.csv", at.Filename)
		assert.Equal(t, "text/csv", at.Type)
		assert.Equal(t, "attachment", at.Disposition)
		content, err := base64.StdEncoding.DecodeString(at.Content)
		require.NoError(t, err)
		assert.Equal(t, "name,value\ncsat,80\n", string(content))
	})

	t.Run("plain message: shared personalization", func(t *testing.T) {
		m := svc.prepare(core.EmailMessage{To: []mail.Address{boss, amy}, Subject: "hello", TextContent: "hi"})

		require.Len(t, m.Personalizations, 1)
		assert.Len(t, m.Personalizations[0].To, 2)
		assert.Empty(t, m.Categories)
		assert.Empty(t, m.Attachments)
	})
}
