package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"beatstore/internal/config"
	"beatstore/internal/delivery"
	"beatstore/internal/entitlement"
	"beatstore/internal/logging"
	"beatstore/internal/mailer"
	"beatstore/internal/media"
	"beatstore/internal/services"
	"beatstore/internal/store"
)

// Event is one verified purchase completion handed to the pipeline.
// EventID is the upstream provider's identifier and may be empty for
// manually triggered runs; when present it deduplicates provider retries.
// Amount is the charged total as reported upstream; it is logged for
// reconciliation, but the ledger always records the license tier price.
type Event struct {
	EventID    string
	ProductID  string
	LicenseID  string
	BuyerEmail string
	Amount     float64
}

// Outcome describes a finished pipeline run. AlreadyFulfilled means the
// event was a replay and no email was sent.
type Outcome struct {
	SaleID           string
	Delivered        []string
	DownloadURLs     []string
	Warnings         []string
	PreviewURL       string
	AlreadyFulfilled bool
}

// Pipeline executes fulfillment runs. One pipeline serves all events; runs
// are independent and safe to execute concurrently.
type Pipeline struct {
	cfg       *config.Config
	store     *store.Store
	resolver  *entitlement.Resolver
	assembler *delivery.Assembler
	transport mailer.Transport
	logger    *slog.Logger
	now       func() time.Time
}

// New wires the pipeline stages. The transport is built once at startup and
// injected so tests can substitute a fake.
func New(cfg *config.Config, st *store.Store, transport mailer.Transport, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		resolver:  entitlement.NewResolver(st, logger),
		assembler: delivery.NewAssembler(media.NewLibrary(cfg.Paths.MediaDir), cfg.Paths.ArchiveDir, logger),
		transport: transport,
		logger:    logging.WithComponent(logger, "fulfillment"),
		now:       time.Now,
	}
}

// Fulfill runs the four pipeline stages for one event. Unknown records and
// a missing buyer email surface as no-op errors (services.IsNoOp); a mail
// transport failure is fatal to the run; ledger failures are logged and the
// run still counts as succeeded.
func (p *Pipeline) Fulfill(ctx context.Context, event Event) (*Outcome, error) {
	ctx = services.WithProductID(ctx, event.ProductID)
	logger := logging.WithContext(ctx, p.logger).With(
		logging.String(logging.FieldLicenseID, event.LicenseID))
	if event.EventID != "" {
		logger = logger.With(logging.String("event_id", event.EventID))

		existing, err := p.store.FindSaleByEventID(ctx, event.EventID)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "fulfillment", "dedupe check", event.EventID, err)
		}
		if existing != nil {
			logger.Info("event already fulfilled, skipping", logging.String("sale_id", existing.ID))
			return &Outcome{
				SaleID:           existing.ID,
				Delivered:        existing.FilesDelivered,
				DownloadURLs:     existing.DownloadURLs,
				AlreadyFulfilled: true,
			}, nil
		}
	}

	resolveCtx, resolveLog := stageScope(ctx, logger, "entitlement")
	ent, err := p.resolver.Resolve(resolveCtx, event.ProductID, event.LicenseID, event.BuyerEmail)
	if err != nil {
		if services.IsNoOp(err) {
			resolveLog.Warn("fulfillment skipped", logging.Error(err))
		}
		return nil, err
	}

	var urls []string
	pkg, err := p.assembler.Assemble(ent, func(refs []string) (summary, agreement []byte) {
		urls = downloadURLs(p.cfg.Store.BaseURL, refs)
		return renderSummary(p.cfg.Store.Name, ent, urls), renderAgreement(ent, p.now())
	})
	if err != nil {
		return nil, err
	}

	msg := &mailer.Message{
		To:          ent.Buyer,
		Subject:     subjectLine(ent),
		Body:        bodyText(ent, pkg.Delivered, urls),
		Attachments: mailAttachments(pkg.Attachments),
	}
	dispatchCtx, dispatchLog := stageScope(ctx, logger, "dispatch")
	info, err := p.transport.Send(dispatchCtx, msg)
	if err != nil {
		dispatchLog.Error("delivery email failed, aborting before ledger", logging.Error(err))
		return nil, err
	}

	outcome := &Outcome{
		Delivered:    pkg.Delivered,
		DownloadURLs: urls,
		Warnings:     pkg.Warnings,
	}
	if info.Sandbox {
		outcome.PreviewURL = info.PreviewURL
		logger.Info("sandbox delivery preview", logging.String("preview_url", info.PreviewURL))
	}

	ledgerCtx, ledgerLog := stageScope(ctx, logger, "ledger")
	p.writeLedger(ledgerCtx, ledgerLog, event, ent, outcome)
	return outcome, nil
}

// stageScope annotates the context and logger with the active stage name so
// store and transport calls made inside the stage carry it too.
func stageScope(ctx context.Context, logger *slog.Logger, stage string) (context.Context, *slog.Logger) {
	return services.WithStage(ctx, stage), logger.With(logging.String(logging.FieldStage, stage))
}

// writeLedger appends the sale record and bumps the product counter. The
// recorded amount is always the license tier's list price; coupon math stays
// upstream of the pipeline. Both writes are best-effort: the email is
// already out, so failures are logged without failing the run.
func (p *Pipeline) writeLedger(ctx context.Context, logger *slog.Logger, event Event, ent *entitlement.Entitlement, outcome *Outcome) {
	if event.Amount > 0 && event.Amount != ent.License.Price {
		logger.Info("charged amount differs from tier price",
			logging.Float64("charged", event.Amount),
			logging.Float64("tier_price", ent.License.Price))
	}

	sale := &store.Sale{
		ID:             store.NewSaleID(p.now()),
		EventID:        event.EventID,
		ProductID:      ent.Product.ID,
		ProductTitle:   ent.Product.Title,
		LicenseID:      ent.License.ID,
		LicenseName:    ent.License.Name,
		Customer:       ent.Buyer,
		Amount:         ent.License.Price,
		Date:           p.now(),
		Status:         store.SaleCompleted,
		FilesDelivered: outcome.Delivered,
		DownloadURLs:   outcome.DownloadURLs,
	}

	if err := p.store.AppendSale(ctx, sale); err != nil {
		if errors.Is(err, store.ErrDuplicateEvent) {
			// A concurrent replay won the race after our pre-check. The buyer
			// got a second email but the ledger stays single-entry.
			logger.Warn("sale already on ledger after concurrent replay")
			outcome.AlreadyFulfilled = true
			return
		}
		logger.Error("ledger write failed, delivery already completed", logging.Error(err))
		return
	}
	outcome.SaleID = sale.ID

	if err := p.store.IncrementSaleCount(ctx, ent.Product.ID); err != nil {
		logger.Error("sale counter update failed", logging.Error(err))
	}
	logger.Info("sale recorded",
		logging.String("sale_id", sale.ID),
		logging.Float64("amount", sale.Amount))
}

func downloadURLs(baseURL string, refs []string) []string {
	base := strings.TrimRight(baseURL, "/")
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		urls = append(urls, fmt.Sprintf("%s/media/%s", base, strings.TrimPrefix(ref, "/")))
	}
	return urls
}

func mailAttachments(attachments []delivery.Attachment) []mailer.Attachment {
	out := make([]mailer.Attachment, 0, len(attachments))
	for _, att := range attachments {
		out = append(out, mailer.Attachment{Name: att.Name, Path: att.Path, Body: att.Body})
	}
	return out
}
