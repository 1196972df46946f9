package services

import (
	"fmt"
	"html"
	"strings"
	"time"

	"domain-panel/internal/models"
	"domain-panel/internal/view"
)

const (
	reminderTitle  = "域名到期提醒"
	reminderFooter = "请及时续费以避免域名过期！"
)

// Message is one reminder rendered for every channel.
type Message struct {
	Title   string
	Text    string // plain text, also valid markdown
	HTML    string // Telegram HTML parse mode
	Records []models.DomainRecord
}

// BuildMessage renders the reminder for records at now.
func BuildMessage(records []models.DomainRecord, now time.Time) Message {
	var text, htm strings.Builder

	text.WriteString("⚠️ " + reminderTitle + "\n\n")
	htm.WriteString("⚠️ <b>" + reminderTitle + "</b>\n\n")
	intro := fmt.Sprintf("以下 %d 个域名即将到期：\n\n", len(records))
	text.WriteString(intro)
	htm.WriteString(intro)

	for _, r := range records {
		left := view.DaysLeft(models.DateOrZero(r.ExpireDate), now)
		writeEntry(&text, r.Domain, r.Registrar, r.ExpireDate, left)
		writeEntry(&htm, "<b>"+html.EscapeString(r.Domain)+"</b>", html.EscapeString(r.Registrar), html.EscapeString(r.ExpireDate), left)
	}

	text.WriteString(reminderFooter)
	htm.WriteString(reminderFooter)

	return Message{
		Title:   fmt.Sprintf("%s：%d 个域名即将到期", reminderTitle, len(records)),
		Text:    text.String(),
		HTML:    htm.String(),
		Records: records,
	}
}

func writeEntry(b *strings.Builder, domain, registrar, expire string, daysLeft int) {
	fmt.Fprintf(b, " %s\n", domain)
	fmt.Fprintf(b, "   注册商：%s\n", registrar)
	fmt.Fprintf(b, "   到期时间：%s\n", expire)
	fmt.Fprintf(b, "   剩余天数：%d天\n\n", daysLeft)
}
