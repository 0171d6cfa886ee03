// Package memory implementa los puertos de persistencia del ledger en memoria de proceso.
// Run trabaja sobre una copia del estado y la publica solo al confirmar, con lo que un error
// deshace todo igual que un Rollback. Las transacciones se serializan con un único mutex.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/mantenimiento-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Operaciones en las que se puede inyectar un fallo con SetFault.
const (
	OpCreateMovement = "movement.create"
	OpUpdateStock    = "component.update"
	OpCreateAlert    = "alert.create"
	OpCommit         = "tx.commit"
)

type state struct {
	components     map[string]entity.Component
	movements      []entity.Movement // en orden de secuencia
	alerts         []entity.Alert
	users          map[string]string
	serviceOrders  map[string]string
	purchaseOrders map[string]string
	shipments      map[string]string
	seq            int64
}

func newState() *state {
	return &state{
		components:     make(map[string]entity.Component),
		users:          make(map[string]string),
		serviceOrders:  make(map[string]string),
		purchaseOrders: make(map[string]string),
		shipments:      make(map[string]string),
	}
}

func (s *state) clone() *state {
	c := &state{
		components:     make(map[string]entity.Component, len(s.components)),
		movements:      append([]entity.Movement(nil), s.movements...),
		alerts:         append([]entity.Alert(nil), s.alerts...),
		users:          s.users,
		serviceOrders:  s.serviceOrders,
		purchaseOrders: s.purchaseOrders,
		shipments:      s.shipments,
		seq:            s.seq,
	}
	for k, v := range s.components {
		c.components[k] = v
	}
	return c
}

// Store estado compartido. El valor cero no es usable; construir con NewStore.
type Store struct {
	mu     sync.RWMutex
	st     *state
	faults map[string]error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla la copia pasa a ser el estado vigente.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	componentRepo repository.ComponentRepository,
	alertRepo repository.AlertRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	v := view{store: s, tx: work}
	if err := fn(&MovementRepo{v}, &ComponentRepo{v}, &AlertRepo{v}); err != nil {
		return err
	}
	if err := s.faults[OpCommit]; err != nil {
		return err
	}
	s.st = work
	return nil
}

// RunSnapshot ejecuta fn con lectura consistente del estado vigente.
func (s *Store) RunSnapshot(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	componentRepo repository.ComponentRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := view{store: s, tx: s.st}
	return fn(&MovementRepo{v}, &ComponentRepo{v})
}

// Components repositorio fuera de transacción.
func (s *Store) Components() *ComponentRepo { return &ComponentRepo{view{store: s}} }

// Movements repositorio fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{view{store: s}} }

// Alerts repositorio fuera de transacción.
func (s *Store) Alerts() *AlertRepo { return &AlertRepo{view{store: s}} }

// Dashboard repositorio de agregados.
func (s *Store) Dashboard() *DashboardRepo { return &DashboardRepo{view{store: s}} }

// SetFault hace que la operación op falle con err hasta que se limpie con SetFault(op, nil).
func (s *Store) SetFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// AddComponent registra o reemplaza un componente del catálogo.
func (s *Store) AddComponent(c entity.Component) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.components[c.ID] = c
}

// AddUser registra el nombre visible de un usuario.
func (s *Store) AddUser(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[id] = name
}

// AddServiceOrder registra el número visible de una orden de servicio.
func (s *Store) AddServiceOrder(id, number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.serviceOrders[id] = number
}

// AddPurchaseOrder registra el número visible de una orden de compra.
func (s *Store) AddPurchaseOrder(id, number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.purchaseOrders[id] = number
}

// AddShipment registra el número visible de un envío.
func (s *Store) AddShipment(id, number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.shipments[id] = number
}

// AddLegacyMovement agrega un movimiento histórico tal cual (sin validar ni tocar el stock),
// como las filas migradas sin saldo persistido.
func (s *Store) AddLegacyMovement(m entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.seq++
	m.Sequence = s.st.seq
	s.st.movements = append(s.st.movements, m)
}

// AddAlert registra una alerta existente.
func (s *Store) AddAlert(a entity.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.alerts = append(s.st.alerts, a)
}

// view resuelve sobre qué estado opera un repositorio: el de la transacción o el vigente.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.st)
}

func (v view) write(op string, fn func(st *state) error) error {
	if v.tx != nil {
		if err := v.store.faults[op]; err != nil {
			return err
		}
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if err := v.store.faults[op]; err != nil {
		return err
	}
	return fn(v.store.st)
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
