// Package notify envía el aviso de transferencia al grupo de WhatsApp del
// negocio a través de la API del gateway de mensajería.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/purchasing"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/entity"
	"github.com/ferrisoluciones/ferreteria-api/pkg/config"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
)

var _ purchasing.TransferNotifier = (*WhatsAppNotifier)(nil)

// WhatsAppNotifier adaptador sobre la API del gateway (endpoint sendMedia).
// Si BaseURL está vacío las notificaciones se omiten en silencio: el negocio
// puede operar sin el gateway configurado.
type WhatsAppNotifier struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewWhatsAppNotifier construye el notificador.
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, log *logger.Logger) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type sendMediaRequest struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"`
	MimeType  string `json:"mimetype"`
	FileName  string `json:"fileName"`
	Media     string `json:"media"` // base64
	Caption   string `json:"caption"`
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// NotifyTransfer arma el mensaje del grupo y lo envía; con comprobante va
// como documento adjunto, sin él como texto plano.
func (n *WhatsAppNotifier) NotifyTransfer(ctx context.Context, transfer *entity.TransferLog, receipt []byte) error {
	if n.cfg.BaseURL == "" {
		return nil
	}

	caption := n.buildMessage(transfer)
	if len(receipt) == 0 {
		return n.post(ctx, "/message/sendText/"+n.cfg.Instance, sendTextRequest{
			Number: n.cfg.Recipient,
			Text:   caption,
		})
	}
	return n.post(ctx, "/message/sendMedia/"+n.cfg.Instance, sendMediaRequest{
		Number:    n.cfg.Recipient,
		MediaType: "document",
		MimeType:  "application/pdf",
		FileName:  fmt.Sprintf("comprobante-%s.pdf", transfer.OccurredAt.Format("20060102-150405")),
		Media:     base64.StdEncoding.EncodeToString(receipt),
		Caption:   caption,
	})
}

// buildMessage formato del aviso que lee el grupo del negocio.
func (n *WhatsAppNotifier) buildMessage(transfer *entity.TransferLog) string {
	kind := "EGRESO"
	if transfer.Kind == "ingreso" {
		kind = "INGRESO"
	}
	return fmt.Sprintf(
		"🏦 *TRANSFERENCIA REGISTRADA*\n\n"+
			"📅 Fecha: %s\n"+
			"📋 Tipo: %s\n"+
			"💰 Monto: $%s\n"+
			"📝 Motivo: %s\n"+
			"👤 Registrado por: %s",
		transfer.OccurredAt.Format("02/01/2006 15:04"),
		kind,
		transfer.Amount.StringFixed(2),
		transfer.Reason,
		transfer.UploadedBy,
	)
}

func (n *WhatsAppNotifier) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("serializar notificación: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("armar request de notificación: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", n.cfg.APIKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enviar notificación: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.log.Warn().Int("status", resp.StatusCode).Str("body", string(msg)).Msg("gateway de WhatsApp rechazó la notificación")
		return fmt.Errorf("gateway respondió %d", resp.StatusCode)
	}
	return nil
}
