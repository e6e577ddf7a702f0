package emailsvc

import (
	"bytes"
	"io"
	"log"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/luct/core"
	logsvc "github.com/trezcool/luct/services/logger"
)

func TestConsoleService_SendMessages(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	core.ParseEmailTemplates(logger)

	var out bytes.Buffer
	svc := NewConsoleServiceMock(conf, logger)
	svc.out = &out

	lecturer := mail.Address{Name: "John Doe", Address: "lecturer@luct.ac.ls"}
	svc.SendMessages(
		&core.EmailMessage{To: []mail.Address{lecturer}, Subject: "Plain", BodyStr: "Hello there"},
		&core.EmailMessage{
			To:           []mail.Address{lecturer},
			Cc:           []mail.Address{{Address: "principal@luct.ac.ls"}},
			Subject:      "Reviewed",
			TemplateName: "report_reviewed",
			TemplateData: map[string]interface{}{
				"ReportID": 1, "LecturerName": "John Doe", "ReviewerName": "Jane Smith", "Week": 6,
				"CourseCode": "DIWA2110", "ClassName": "IT-2023-A", "Status": "approved", "Feedback": "",
			},
		},
		&core.EmailMessage{Subject: "nobody to send to", BodyStr: "lost"},
		&core.EmailMessage{To: []mail.Address{lecturer}, Subject: "unknown template", TemplateName: "lol"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 2)
	assert.Equal(t, "Hello there", sent[0].TextContent)
	assert.Empty(t, sent[0].HTMLContent)
	assert.Contains(t, sent[1].TextContent, "has been approved by Jane Smith")
	assert.Contains(t, sent[1].HTMLContent, "<strong>DIWA2110</strong>")
	assert.NotContains(t, sent[1].TextContent, "Feedback:")

	got := out.String()
	assert.Contains(t, got, "Subject: [LUCT Reporting] Plain\r\n")
	assert.Contains(t, got, `To: "John Doe" <lecturer@luct.ac.ls>`)
	assert.Contains(t, got, "CC: <principal@luct.ac.ls>\r\n")
	assert.Contains(t, got, "Content-Type: text/html; charset=utf-8")
	assert.NotContains(t, got, "lost")

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func TestNewService(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)

	conf.SendgridApiKey = "SG.key"
	_, isConsole := NewService(conf, logger).(*ConsoleService)
	assert.True(t, isConsole, "test mode never sends real emails")

	conf.TestMode = false
	_, isConsole = NewService(conf, logger).(*ConsoleService)
	assert.False(t, isConsole)

	conf.SendgridApiKey = ""
	_, isConsole = NewService(conf, logger).(*ConsoleService)
	assert.True(t, isConsole)
}
