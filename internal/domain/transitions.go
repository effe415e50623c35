package domain

// transitionRule определяет, какой актор имеет право на переход
type transitionRule int

const (
	// byAnyTechnician переход доступен любому технику (гонка разрешается атомарно на уровне хранилища)
	byAnyTechnician transitionRule = iota
	// byOwningCustomer переход доступен только клиенту-владельцу бронирования
	byOwningCustomer
	// byAssignedTechnician переход доступен только назначенному технику
	byAssignedTechnician
)

// transitions статическая таблица переходов статусов.
// Терминальные статусы (completed, cancelled) не имеют исходящих переходов.
var transitions = map[BookingStatus]map[BookingStatus]transitionRule{
	StatusPending: {
		StatusAccepted:  byAnyTechnician,
		StatusCancelled: byOwningCustomer,
	},
	StatusAccepted: {
		StatusInProgress: byAssignedTechnician,
		StatusCancelled:  byAssignedTechnician,
	},
	StatusInProgress: {
		StatusCompleted: byAssignedTechnician,
		StatusCancelled: byAssignedTechnician,
	},
}

// TransitionDefined проверяет, что переход from -> to существует в таблице
func TransitionDefined(from, to BookingStatus) bool {
	rules, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = rules[to]
	return ok
}

// TransitionAllowed проверяет, что актор имеет право выполнить переход
// booking.Status -> to. Переход должен существовать в таблице.
func TransitionAllowed(b *Booking, actor Actor, to BookingStatus) bool {
	rules, ok := transitions[b.Status]
	if !ok {
		return false
	}
	rule, ok := rules[to]
	if !ok {
		return false
	}

	switch rule {
	case byAnyTechnician:
		return actor.Role == RoleTechnician
	case byOwningCustomer:
		return actor.Role == RoleCustomer && b.CustomerID == actor.ID
	case byAssignedTechnician:
		return actor.Role == RoleTechnician && b.IsAssignedTo(actor.ID)
	default:
		return false
	}
}

// NextStatuses возвращает список статусов, достижимых из указанного
func NextStatuses(from BookingStatus) []BookingStatus {
	rules, ok := transitions[from]
	if !ok {
		return nil
	}

	next := make([]BookingStatus, 0, len(rules))
	for to := range rules {
		next = append(next, to)
	}
	return next
}
