package router

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/infra/database"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

// Services holds every use case the API exposes, wired to one store.
type Services struct {
	Leads     *usecase.LeadUseCase
	Offers    *usecase.OfferUseCase
	Policies  *usecase.PolicyUseCase
	Contacts  *usecase.ContactUseCase
	Analytics *usecase.AnalyticsUseCase
	Auth      *usecase.AuthUseCase
	Admin     *usecase.AdminUseCase
	Dashboard *usecase.DashboardUseCase
	Carriers  *usecase.CarrierUseCase
}

// NewServices builds the repositories over db and the use cases over them.
// publisher may be nil.
func NewServices(
	db *sqlx.DB,
	publisher usecase.EventPublisher,
	hasher usecase.PasswordHasher,
	tokens usecase.TokenIssuer,
	log *zap.Logger,
) *Services {
	leads := database.NewLeadRepository(db)
	quotes := database.NewQuoteRepository(db)
	policies := database.NewPolicyRepository(db)
	contacts := database.NewContactMessageRepository(db)
	events := database.NewAnalyticsEventRepository(db)
	users := database.NewUserRepository(db)
	carriers := database.NewCarrierRepository(db)
	auditLogs := database.NewAuditLogRepository(db)

	recorder := audit.NewRecorder(auditLogs, log)

	return &Services{
		Leads:     usecase.NewLeadUseCase(leads, quotes, recorder, publisher, log),
		Offers:    usecase.NewOfferUseCase(leads, quotes, recorder, log),
		Policies:  usecase.NewPolicyUseCase(leads, quotes, policies, recorder, log),
		Contacts:  usecase.NewContactUseCase(contacts, recorder, publisher, log),
		Analytics: usecase.NewAnalyticsUseCase(events, log),
		Auth:      usecase.NewAuthUseCase(users, hasher, tokens, recorder, log),
		Admin:     usecase.NewAdminUseCase(users, auditLogs, recorder),
		Dashboard: usecase.NewDashboardUseCase(leads, contacts, events),
		Carriers:  usecase.NewCarrierUseCase(carriers, recorder),
	}
}
