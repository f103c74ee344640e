package gateway

import (
	"context"

	"golang.org/x/text/unicode/norm"
)

// HTTPAuditSink posts irregularities and manager alerts to the audit
// service. Operator- and roster-entered names arrive in whatever Unicode
// form the upstream produced; everything is NFC-normalized before dispatch
// so the audit trail compares equal strings byte-for-byte.
type HTTPAuditSink struct {
	IrregularityURL string
	AlertURL        string
	Client          HTTPClient
}

// NewHTTPAuditSink creates an audit sink with the default timeout.
func NewHTTPAuditSink(irregularityURL, alertURL string) *HTTPAuditSink {
	return &HTTPAuditSink{
		IrregularityURL: irregularityURL,
		AlertURL:        alertURL,
		Client:          newClient(),
	}
}

// ReportIrregularity implements AuditSink.
func (s *HTTPAuditSink) ReportIrregularity(ctx context.Context, ir Irregularity) error {
	ir.UserID = norm.NFC.String(ir.UserID)
	ir.SectorID = norm.NFC.String(ir.SectorID)
	ir.Reason = norm.NFC.String(ir.Reason)
	return postJSON(ctx, s.Client, s.IrregularityURL, ir, nil)
}

// AlertManager implements AuditSink.
func (s *HTTPAuditSink) AlertManager(ctx context.Context, alert ManagerAlert) error {
	alert.UserID = norm.NFC.String(alert.UserID)
	alert.SectorID = norm.NFC.String(alert.SectorID)
	alert.Message = norm.NFC.String(alert.Message)
	return postJSON(ctx, s.Client, s.AlertURL, alert, nil)
}
