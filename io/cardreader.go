package io

const CARD_COLUMNS = 80 // Column count of a punched card.

// Reader status word bits.
const (
	READER_STATUS_LAST_CARD = 0x1000 // Hopper emptied by the last read.
	READER_STATUS_COMPLETE  = 0x0800 // Read operation complete.
	READER_STATUS_BUSY      = 0x0002 // Read in progress.
	READER_STATUS_NOT_READY = 0x0001 // Hopper empty, nothing completing.
)

// Card is one 80-column punched card.
type Card struct {
	Columns [CARD_COLUMNS]uint16
}

// CardFromWords builds a card from up to 80 words; short input leaves the
// remaining columns blank.
func CardFromWords(words []uint16) (card Card) {
	copy(card.Columns[:], words)
	return
}

// CardReader2501 is the IBM 2501 card reader, device code 9. It is a
// block-mode unit: InitRead transfers a whole card into memory through the
// word count at WCA, with the data buffer starting at WCA+1.
type CardReader2501 struct {
	hopper []Card

	readInProgress    bool
	operationComplete bool
	lastCard          bool

	readAddress uint16
	readCount   uint16
}

// NewCardReader2501 creates a card reader with an empty hopper.
func NewCardReader2501() *CardReader2501 {
	return &CardReader2501{}
}

// LoadCard places one card at the back of the hopper.
func (cr *CardReader2501) LoadCard(card Card) {
	cr.hopper = append(cr.hopper, card)
}

// LoadCards places cards at the back of the hopper in order.
func (cr *CardReader2501) LoadCards(cards ...Card) {
	cr.hopper = append(cr.hopper, cards...)
}

// Empty reports whether the hopper is out of cards.
func (cr *CardReader2501) Empty() bool {
	return len(cr.hopper) == 0
}

// CardCount returns the number of cards waiting in the hopper.
func (cr *CardReader2501) CardCount() int {
	return len(cr.hopper)
}

// Status assembles the device status word.
func (cr *CardReader2501) Status() (status uint16) {
	if cr.lastCard {
		status |= READER_STATUS_LAST_CARD
	}
	if cr.operationComplete {
		status |= READER_STATUS_COMPLETE
	}
	if cr.readInProgress {
		status |= READER_STATUS_BUSY
	}
	if cr.Empty() && !cr.operationComplete {
		status |= READER_STATUS_NOT_READY
	}

	return
}

func (cr *CardReader2501) clearStatus() {
	cr.operationComplete = false
	cr.lastCard = false
}

// transfer moves the front card into memory at the armed address and count.
func (cr *CardReader2501) transfer(memory []uint16) bool {
	if !cr.readInProgress || cr.Empty() {
		return false
	}

	card := cr.hopper[0]
	count := int(cr.readCount)
	addr := int(cr.readAddress)

	if addr+count > len(memory) {
		return false
	}

	cr.hopper = cr.hopper[1:]
	copy(memory[addr:addr+count], card.Columns[:count])

	cr.lastCard = cr.Empty()
	cr.operationComplete = true
	cr.readInProgress = false

	return true
}

func (cr *CardReader2501) Code() uint8 {
	return 9
}

func (cr *CardReader2501) Name() string {
	return "2501 Card Reader"
}

// Execute handles Sense (status in mem[WCA]; the 0x01 modifier clears
// completion flags first) and InitRead (arm from the negative word count at
// WCA, buffer at WCA+1, then transfer the card immediately).
func (cr *CardReader2501) Execute(iocc Iocc, memory []uint16) (err error) {
	switch iocc.Func {
	case FUNC_SENSE:
		if iocc.Modifiers&0x01 != 0 {
			cr.clearStatus()
		}
		if int(iocc.WCA) < len(memory) {
			memory[iocc.WCA] = cr.Status()
		}

	case FUNC_INIT_READ:
		if cr.readInProgress {
			return
		}
		if int(iocc.WCA) >= len(memory) {
			err = ErrDevice{Device: cr.Name(), Reason: f("word count address out of range")}
			return
		}

		// The count at WCA is stored negated; data lands at WCA+1.
		count := -int16(memory[iocc.WCA])
		if count < 0 {
			count = 0
		}
		if count > CARD_COLUMNS {
			count = CARD_COLUMNS
		}

		cr.readAddress = iocc.WCA + 1
		cr.readCount = uint16(count)
		cr.readInProgress = true
		cr.transfer(memory)

	default:
		err = ErrDevice{Device: cr.Name(), Reason: f("unsupported function %v", iocc.Func)}
	}

	return
}

func (cr *CardReader2501) Busy() bool {
	return cr.readInProgress
}

// Reset clears operation state. The hopper keeps its cards.
func (cr *CardReader2501) Reset() {
	cr.readInProgress = false
	cr.operationComplete = false
	cr.lastCard = false
	cr.readAddress = 0
	cr.readCount = 0
}
