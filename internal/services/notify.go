package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"domain-panel/internal/config"
	"domain-panel/internal/logger"
	"domain-panel/internal/metrics"
	"domain-panel/internal/models"

	"golang.org/x/net/proxy"
)

// Notifier delivers a reminder through one channel
type Notifier interface {
	Method() models.NotifyMethod
	Send(ctx context.Context, msg Message) error
}

// NotificationLog stores delivery attempts
type NotificationLog interface {
	RecordNotification(ctx context.Context, n *models.Notification) error
}

// MethodResult is the outcome of one channel
type MethodResult struct {
	Method models.NotifyMethod `json:"method"`
	OK     bool                `json:"ok"`
	Error  string              `json:"error,omitempty"`
	Err    error               `json:"-"`
}

// AnySucceeded reports whether at least one channel delivered.
func AnySucceeded(results []MethodResult) bool {
	for _, r := range results {
		if r.OK {
			return true
		}
	}
	return false
}

// NotifyService handles notifications
type NotifyService struct {
	notifiers map[models.NotifyMethod]Notifier
	log       NotificationLog
	metrics   *metrics.Metrics
	logger    logger.Logger
	now       func() time.Time
}

// NewNotifyService creates a notification service with every channel. A
// channel without credentials reports *NotConfiguredError when used.
func NewNotifyService(cfg *config.NotificationsConfig, log NotificationLog, m *metrics.Metrics, lg logger.Logger) *NotifyService {
	timeout := config.ParseDuration(cfg.Timeout, 30*time.Second)
	return NewNotifyServiceWith(log, m, lg,
		NewTelegramNotifier(&cfg.Telegram, timeout),
		NewWeChatNotifier(&cfg.WeChat, timeout),
		NewQQNotifier(&cfg.QQ, timeout),
		NewEmailNotifier(&cfg.Email),
	)
}

// NewNotifyServiceWith creates a notification service over the given
// notifiers.
func NewNotifyServiceWith(log NotificationLog, m *metrics.Metrics, lg logger.Logger, notifiers ...Notifier) *NotifyService {
	if lg == nil {
		lg = logger.NewNop()
	}
	s := &NotifyService{
		notifiers: make(map[models.NotifyMethod]Notifier, len(notifiers)),
		log:       log,
		metrics:   m,
		logger:    lg,
		now:       time.Now,
	}
	for _, n := range notifiers {
		s.notifiers[n.Method()] = n
	}
	return s
}

// Notify sends one reminder listing records through every method. Methods
// are independent: a failing channel does not stop the others.
func (s *NotifyService) Notify(ctx context.Context, records []models.DomainRecord, methods models.Methods) []MethodResult {
	msg := BuildMessage(records, s.now())
	methods = methods.Normalize()
	results := make([]MethodResult, 0, len(methods))

	for _, method := range methods {
		var err error
		if n, ok := s.notifiers[method]; ok {
			err = n.Send(ctx, msg)
		} else {
			err = fmt.Errorf("不支持的通知方式: %s", method)
		}

		res := MethodResult{Method: method, OK: err == nil, Err: err}
		if err != nil {
			res.Error = err.Error()
			s.logger.Warn("Notification failed",
				logger.String("method", string(method)),
				logger.Error(err),
			)
		} else {
			s.logger.Info("Notification sent",
				logger.String("method", string(method)),
				logger.Int("domains", len(records)),
			)
		}
		s.metrics.ObserveNotification(string(method), err)
		s.recordNotification(ctx, records, method, msg.Text, err)
		results = append(results, res)
	}
	return results
}

// recordNotification writes one log row per domain
func (s *NotifyService) recordNotification(ctx context.Context, records []models.DomainRecord, method models.NotifyMethod, content string, sendErr error) {
	if s.log == nil {
		return
	}
	status := models.NotificationSuccess
	errText := ""
	if sendErr != nil {
		status = models.NotificationFailed
		errText = sendErr.Error()
	}
	sentAt := s.now()
	for _, r := range records {
		n := &models.Notification{
			Domain:     r.Domain,
			ExpireDate: r.ExpireDate,
			Method:     string(method),
			Content:    content,
			Status:     status,
			Error:      errText,
			SentAt:     sentAt,
		}
		if err := s.log.RecordNotification(ctx, n); err != nil {
			s.logger.Error("Failed to record notification", logger.String("domain", r.Domain), logger.Error(err))
		}
	}
}

func postForm(ctx context.Context, client *http.Client, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return client.Do(req)
}

// TelegramNotifier sends Telegram notifications
type TelegramNotifier struct {
	config *config.TelegramConfig
	client *http.Client
}

// NewTelegramNotifier creates a new Telegram notifier. When a proxy is
// configured, requests go through it over SOCKS5.
func NewTelegramNotifier(cfg *config.TelegramConfig, timeout time.Duration) *TelegramNotifier {
	client := &http.Client{Timeout: timeout}

	if addr := strings.TrimPrefix(cfg.Proxy, "socks5://"); addr != "" {
		dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
		if err == nil {
			transport := &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					if cd, ok := dialer.(proxy.ContextDialer); ok {
						return cd.DialContext(ctx, network, addr)
					}
					return dialer.Dial(network, addr)
				},
			}
			client.Transport = transport
		}
	}
	return &TelegramNotifier{config: cfg, client: client}
}

func (t *TelegramNotifier) Method() models.NotifyMethod { return models.MethodTelegram }

// Send sends Telegram notification
func (t *TelegramNotifier) Send(ctx context.Context, msg Message) error {
	if t.config.BotToken == "" || t.config.ChatID == "" {
		return &NotConfiguredError{Service: "Telegram", Hint: "请在环境变量中配置TG_BOT_TOKEN和TG_USER_ID"}
	}

	payload := map[string]interface{}{
		"chat_id":    t.config.ChatID,
		"text":       msg.HTML,
		"parse_mode": "HTML",
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(t.config.APIBase, "/"), t.config.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("Telegram API请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Description string `json:"description"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &body) == nil && body.Description != "" {
			return fmt.Errorf("Telegram API错误: %s", body.Description)
		}
		return fmt.Errorf("Telegram API错误: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}

// WeChatNotifier sends WeChat notifications through ServerChan
type WeChatNotifier struct {
	config *config.WeChatConfig
	client *http.Client
}

// NewWeChatNotifier creates a new ServerChan notifier
func NewWeChatNotifier(cfg *config.WeChatConfig, timeout time.Duration) *WeChatNotifier {
	return &WeChatNotifier{config: cfg, client: &http.Client{Timeout: timeout}}
}

func (w *WeChatNotifier) Method() models.NotifyMethod { return models.MethodWeChat }

// Send sends WeChat notification
func (w *WeChatNotifier) Send(ctx context.Context, msg Message) error {
	if w.config.SendKey == "" {
		return &NotConfiguredError{Service: "微信", Hint: "请配置WECHAT_SENDKEY"}
	}

	endpoint := fmt.Sprintf("%s/%s.send", strings.TrimRight(w.config.APIBase, "/"), w.config.SendKey)
	resp, err := postForm(ctx, w.client, endpoint, url.Values{
		"title": {msg.Title},
		"desp":  {msg.Text},
	})
	if err != nil {
		return fmt.Errorf("ServerChan请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ServerChan returned status %d", resp.StatusCode)
	}

	var result struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.Code != 0 {
		return fmt.Errorf("ServerChan错误: %s", result.Message)
	}
	return nil
}

// QQNotifier sends QQ notifications through Qmsg
type QQNotifier struct {
	config *config.QQConfig
	client *http.Client
}

// NewQQNotifier creates a new Qmsg notifier
func NewQQNotifier(cfg *config.QQConfig, timeout time.Duration) *QQNotifier {
	return &QQNotifier{config: cfg, client: &http.Client{Timeout: timeout}}
}

func (q *QQNotifier) Method() models.NotifyMethod { return models.MethodQQ }

// Send sends QQ notification
func (q *QQNotifier) Send(ctx context.Context, msg Message) error {
	if q.config.Key == "" {
		return &NotConfiguredError{Service: "QQ", Hint: "请配置QMSG_KEY"}
	}

	form := url.Values{"msg": {msg.Text}}
	if q.config.QQ != "" {
		form.Set("qq", q.config.QQ)
	}
	endpoint := fmt.Sprintf("%s/send/%s", strings.TrimRight(q.config.APIBase, "/"), q.config.Key)
	resp, err := postForm(ctx, q.client, endpoint, form)
	if err != nil {
		return fmt.Errorf("Qmsg请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Qmsg returned status %d", resp.StatusCode)
	}

	var result struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && !result.Success {
		return fmt.Errorf("Qmsg错误: %s", result.Reason)
	}
	return nil
}

// EmailNotifier sends email notifications
type EmailNotifier struct {
	config *config.EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(cfg *config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{config: cfg, send: smtp.SendMail}
}

func (e *EmailNotifier) Method() models.NotifyMethod { return models.MethodEmail }

// Send sends email notification
func (e *EmailNotifier) Send(ctx context.Context, msg Message) error {
	if e.config.SMTPHost == "" || e.config.From == "" || len(e.config.To) == 0 {
		return &NotConfiguredError{Service: "邮件", Hint: "请配置SMTP_HOST、SMTP_FROM和SMTP_TO"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Build email message
	message := fmt.Sprintf("From: %s\r\n", e.config.From)
	message += fmt.Sprintf("To: %s\r\n", strings.Join(e.config.To, ","))
	message += fmt.Sprintf("Subject: %s\r\n", msg.Title)
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n"
	message += msg.Text

	auth := smtp.PlainAuth("", e.config.From, e.config.Password, e.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", e.config.SMTPHost, e.config.SMTPPort)
	if err := e.send(addr, auth, e.config.From, e.config.To, []byte(message)); err != nil {
		// QQ mail and some other providers answer with a "short response"
		// error although the message was accepted.
		if !strings.Contains(err.Error(), "short response") {
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	return nil
}
