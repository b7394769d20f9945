/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hidden

import (
	"fmt"
	"math/rand/v2"
)

// ShuffleFunc applies a uniform random permutation of n elements through
// swap. math/rand/v2's rand.Shuffle and (*rand.Rand).Shuffle both satisfy it.
type ShuffleFunc func(n int, swap func(i, j int))

func defaultShuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Deck holds the policy draw pile and discard pile. The top of the draw
// pile is index 0.
type Deck struct {
	draw    []Policy
	discard []Policy
	shuffle ShuffleFunc
}

// NewDeck returns a freshly shuffled deck of 6 Tradition and 11
// Construction cards.
func NewDeck(shuffle ShuffleFunc) *Deck {
	if shuffle == nil {
		shuffle = defaultShuffle
	}

	d := &Deck{
		draw:    make([]Policy, 0, TotalCards),
		shuffle: shuffle,
	}

	for range TraditionCards {
		d.draw = append(d.draw, PolicyTradition)
	}
	for range ConstructionCards {
		d.draw = append(d.draw, PolicyConstruction)
	}

	d.shuffleDraw()

	return d
}

func (d *Deck) shuffleDraw() {
	d.shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// ensure makes at least k cards available on the draw pile, folding the
// discard pile back in when needed. It reports whether a reshuffle happened.
func (d *Deck) ensure(k int) bool {
	if len(d.draw) >= k {
		return false
	}

	d.draw = append(d.draw, d.discard...)
	d.discard = d.discard[:0]
	d.shuffleDraw()

	if len(d.draw) < k {
		panic(fmt.Sprintf("hidden: deck exhausted: need %d cards, have %d", k, len(d.draw)))
	}

	return true
}

// Draw removes and returns the top k cards.
func (d *Deck) Draw(k int) (cards []Policy, reshuffled bool) {
	reshuffled = d.ensure(k)

	cards = make([]Policy, k)
	copy(cards, d.draw[:k])
	d.draw = d.draw[k:]

	return cards, reshuffled
}

// Peek returns the top k cards without removing them, reshuffling first
// if the draw pile is short so the result matches the next draw.
func (d *Deck) Peek(k int) (cards []Policy, reshuffled bool) {
	reshuffled = d.ensure(k)

	cards = make([]Policy, k)
	copy(cards, d.draw[:k])

	return cards, reshuffled
}

func (d *Deck) Discard(cards ...Policy) {
	d.discard = append(d.discard, cards...)
}

func (d *Deck) DrawLen() int {
	return len(d.draw)
}

func (d *Deck) DiscardLen() int {
	return len(d.discard)
}
