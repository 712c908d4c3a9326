package bridge

// Mailbox is a one-slot mailbox for raw config payloads. Send never
// blocks and replaces a payload that has not been received yet;
// TryReceive never blocks.
type Mailbox struct {
	ch chan []byte
}

func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan []byte, 1)}
}

// Send stores payload, dropping an undrained earlier payload.
func (m *Mailbox) Send(payload []byte) {
	for {
		select {
		case m.ch <- payload:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

// TryReceive returns the stored payload, or ok=false when the mailbox is empty.
func (m *Mailbox) TryReceive() (payload []byte, ok bool) {
	select {
	case payload = <-m.ch:
		return payload, true
	default:
		return nil, false
	}
}
