package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/comercio-api/internal/application/billing"
	"github.com/jhoicas/comercio-api/internal/application/cart"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/orders"
	appPricing "github.com/jhoicas/comercio-api/internal/application/pricing"
	"github.com/jhoicas/comercio-api/internal/application/ports"
	"github.com/jhoicas/comercio-api/internal/domain"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
	"github.com/jhoicas/comercio-api/pkg/logger"
)

// planTimeout acota la llamada externa al planificador.
const planTimeout = 10 * time.Second

// Actor identifica a quien conversa con el asistente; se toma del token, nunca
// del cuerpo del mensaje.
type Actor struct {
	UserID   string
	ClientID string
	Role     string
}

// UseCase expone el asistente conversacional. El LLM solo PLANIFICA cuál
// herramienta del conjunto cerrado invocar; la ejecución pasa por los mismos
// casos de uso que sirven a los handlers HTTP, con las mismas validaciones y la
// misma restricción por rol. El texto libre del usuario jamás toca SQL.
type UseCase struct {
	llm      ports.LLMService
	resolver *appPricing.Resolver
	cartUC   *cart.UseCase
	orderUC  *orders.UseCase
	billing  *billing.InvoiceUseCase
	log      *logger.Logger
}

// NewUseCase construye el caso de uso del asistente.
func NewUseCase(
	llm ports.LLMService,
	resolver *appPricing.Resolver,
	cartUC *cart.UseCase,
	orderUC *orders.UseCase,
	billingUC *billing.InvoiceUseCase,
	log *logger.Logger,
) *UseCase {
	return &UseCase{llm: llm, resolver: resolver, cartUC: cartUC, orderUC: orderUC, billing: billingUC, log: log}
}

// Chat planifica y ejecuta una herramienta a partir del mensaje libre del actor.
func (uc *UseCase) Chat(ctx context.Context, actor Actor, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrInvalidInput
	}

	planCtx, cancel := context.WithTimeout(ctx, planTimeout)
	defer cancel()
	call, err := uc.llm.PlanToolCall(planCtx, req.Message)
	if err != nil {
		return nil, err
	}
	if err := call.Validate(); err != nil {
		uc.log.Warn().Err(err).Str("user_id", actor.UserID).Msg("plan del asistente rechazado")
		return nil, domain.ErrInvalidInput
	}

	result, err := uc.dispatch(ctx, actor, call)
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{Tool: call.Name, Result: result}, nil
}

// dispatch ejecuta la herramienta planificada contra los casos de uso reales.
// Las herramientas de facturación y de avance de orden son solo para personal;
// las de carrito operan siempre sobre el carrito del PROPIO actor (el LLM no
// puede apuntar a otro cliente).
func (uc *UseCase) dispatch(ctx context.Context, actor Actor, call *dto.ToolCall) (interface{}, error) {
	switch call.Name {
	case dto.ToolResolvePrice:
		args := call.ResolvePrice
		clientID := args.ClientID
		if actor.Role == entity.RoleClient {
			clientID = actor.ClientID
		}
		asOf := time.Time{}
		if args.AsOf != "" {
			parsed, err := time.Parse(time.RFC3339, args.AsOf)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			asOf = parsed
		}
		return uc.resolver.Resolve(ctx, args.ProductID, clientID, asOf)

	case dto.ToolGetPricedCart:
		return uc.cartUC.PriceCart(ctx, uc.actorClient(actor))

	case dto.ToolAddCartItem:
		args := call.AddCartItem
		return uc.cartUC.AddItem(ctx, uc.actorClient(actor), args.ProductID, args.Quantity)

	case dto.ToolCreateOrder:
		return uc.orderUC.CreateFromCart(ctx, uc.actorClient(actor), call.CreateOrder.Notes)

	case dto.ToolAddInvoiceItem:
		if err := uc.requireStaff(actor); err != nil {
			return nil, err
		}
		args := call.AddInvoiceItem
		return uc.billing.AddItem(ctx, args.InvoiceID, args.ProductID, args.Quantity, args.DiscountPercent)

	case dto.ToolSetInvoiceDiscount:
		if err := uc.requireStaff(actor); err != nil {
			return nil, err
		}
		args := call.SetInvoiceDiscount
		return uc.billing.SetDiscount(ctx, args.InvoiceID, args.Percent)

	case dto.ToolIssueInvoice:
		if err := uc.requireStaff(actor); err != nil {
			return nil, err
		}
		return uc.billing.Issue(ctx, call.IssueInvoice.InvoiceID)

	case dto.ToolMarkInvoicePaid:
		if err := uc.requireStaff(actor); err != nil {
			return nil, err
		}
		return uc.billing.MarkPaid(ctx, call.MarkInvoicePaid.InvoiceID)

	case dto.ToolUpdateOrderStatus:
		args := call.UpdateOrderStatus
		return uc.orderUC.UpdateStatus(ctx, args.OrderID, args.Status, actor.Role, actor.ClientID)
	}
	return nil, domain.ErrInvalidInput
}

// actorClient devuelve el cliente sobre el que operan las herramientas de carrito.
// Para un usuario cliente es su propio ClientID; para personal sin cliente asociado
// no hay carrito que operar y la validación de entrada lo rechazará.
func (uc *UseCase) actorClient(actor Actor) string {
	return actor.ClientID
}

func (uc *UseCase) requireStaff(actor Actor) error {
	if actor.Role == entity.RoleClient {
		return domain.ErrForbidden
	}
	return nil
}
