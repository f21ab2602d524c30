package mail

import (
	"io"

	"gopkg.in/gomail.v2"
)

// Mailer SMTP 发信，专门用于把回执 PDF 发给客户
type Mailer struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// Enabled 没配 SMTP 就整体禁用，接口直接报"未配置"
func (m *Mailer) Enabled() bool {
	return m.Host != "" && m.From != ""
}

func (m *Mailer) SendPDF(to, subject, body, filename string, pdf []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return d.DialAndSend(msg)
}
