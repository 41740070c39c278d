package model

// Card is a single playing card. Only its value matters.
type Card int

const (
	MinCard Card = 0
	MaxCard Card = 10

	// DeckSize is the number of cards in a freshly initialized deck
	DeckSize = int(MaxCard-MinCard) + 1
)

// Intner is the source of randomness a deck shuffles with
type Intner interface {
	// Intn returns an int in [0, n)
	Intn(n int) int
}

// Deck is an ordered pile of cards. The front is the next card to play,
// captured cards go on the back.
type Deck struct {
	cards []Card
}

// NewDeck creates a deck holding the given cards, front first
func NewDeck(cards ...Card) *Deck {
	d := &Deck{}
	d.AddCards(cards)
	return d
}

// NewStandardDeck creates a deck holding one of each card value, ascending
func NewStandardDeck() *Deck {
	d := &Deck{}
	d.Initialize()
	return d
}

// Initialize resets the deck to MinCard..MaxCard in ascending order
func (d *Deck) Initialize() {
	d.cards = make([]Card, 0, DeckSize*2)
	for c := MinCard; c <= MaxCard; c++ {
		d.cards = append(d.cards, c)
	}
}

// Shuffle permutes the deck in place (Fisher-Yates)
func (d *Deck) Shuffle(rnd Intner) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the front card. ok is false when the deck is empty.
func (d *Deck) Draw() (card Card, ok bool) {
	if len(d.cards) == 0 {
		return 0, false
	}
	card = d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// AddCard puts a card on the back of the deck
func (d *Deck) AddCard(c Card) {
	d.cards = append(d.cards, c)
}

// AddCards puts cards on the back of the deck, keeping their order
func (d *Deck) AddCards(cards []Card) {
	d.cards = append(d.cards, cards...)
}

// Count returns the number of cards left
func (d *Deck) Count() int {
	return len(d.cards)
}

// IsEmpty reports whether the deck has no cards
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the deck contents, front first
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
