package bot_test

import (
	"context"

	"github.com/lisanmuaddib/x402bot/pkg/bot"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type describedHandler struct{}

func (describedHandler) Handle(ctx context.Context, username string, cmd bot.Command) (string, error) {
	return "ok", nil
}

func (describedHandler) Description() string { return "does things" }

var _ = Describe("Registry", func() {
	var reg *bot.Registry

	BeforeEach(func() {
		reg = bot.NewRegistry()
	})

	It("round-trips the fee", func() {
		Expect(reg.Register("premium", staticHandler("x"), 0.001)).To(Succeed())

		entry, ok := reg.Lookup("premium")
		Expect(ok).To(BeTrue())
		Expect(entry.Fee).To(Equal(0.001))
		Expect(entry.Paid()).To(BeTrue())
	})

	It("lets the last registration win", func() {
		Expect(reg.Register("help", staticHandler("first"), 0)).To(Succeed())
		Expect(reg.Register("help", staticHandler("second"), 0.5)).To(Succeed())

		entry, ok := reg.Lookup("help")
		Expect(ok).To(BeTrue())
		Expect(entry.Fee).To(Equal(0.5))
		out, err := entry.Handler.Handle(context.Background(), "alice", bot.Command{})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("second"))
		Expect(reg.Len()).To(Equal(1))
	})

	It("matches names case-insensitively", func() {
		Expect(reg.Register("Hello", staticHandler("hi"), 0)).To(Succeed())
		_, ok := reg.Lookup("hello")
		Expect(ok).To(BeTrue())
	})

	It("reports missing commands", func() {
		_, ok := reg.Lookup("nope")
		Expect(ok).To(BeFalse())
	})

	It("rejects invalid registrations", func() {
		Expect(reg.Register("", staticHandler("x"), 0)).NotTo(Succeed())
		Expect(reg.Register("two words", staticHandler("x"), 0)).NotTo(Succeed())
		Expect(reg.Register("nil", nil, 0)).NotTo(Succeed())
		Expect(reg.Register("neg", staticHandler("x"), -1)).NotTo(Succeed())
		Expect(reg.Len()).To(BeZero())
	})

	It("picks up descriptions and lists entries sorted", func() {
		Expect(reg.Register("zeta", staticHandler("z"), 0)).To(Succeed())
		Expect(reg.Register("alpha", describedHandler{}, 0)).To(Succeed())

		entries := reg.Entries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Name).To(Equal("alpha"))
		Expect(entries[0].Description).To(Equal("does things"))
		Expect(entries[1].Name).To(Equal("zeta"))
		Expect(entries[1].Description).To(BeEmpty())
	})
})

var _ = Describe("DedupStore", func() {
	It("reports each id as new only once", func() {
		store := bot.NewDedupStore(0)
		Expect(store.MarkIfNew("T1")).To(BeTrue())
		Expect(store.MarkIfNew("T1")).To(BeFalse())
		Expect(store.Contains("T1")).To(BeTrue())
		Expect(store.Len()).To(Equal(1))
	})

	It("grows without bound when capacity is zero", func() {
		store := bot.NewDedupStore(0)
		for _, id := range []string{"1", "2", "3", "4"} {
			store.MarkIfNew(id)
		}
		Expect(store.Len()).To(Equal(4))
	})

	It("evicts the oldest ids beyond capacity", func() {
		store := bot.NewDedupStore(2)
		store.MarkIfNew("1")
		store.MarkIfNew("2")
		store.MarkIfNew("3")

		Expect(store.Len()).To(Equal(2))
		Expect(store.Contains("1")).To(BeFalse())
		Expect(store.Contains("2")).To(BeTrue())
		Expect(store.Contains("3")).To(BeTrue())
	})
})

var _ = Describe("Cursor", func() {
	It("starts empty", func() {
		var c bot.Cursor
		Expect(c.Get()).To(BeEmpty())
	})

	It("only moves forward", func() {
		var c bot.Cursor
		Expect(c.Advance("5")).To(BeTrue())
		Expect(c.Advance("4")).To(BeFalse())
		Expect(c.Get()).To(Equal("5"))
		Expect(c.Advance("10")).To(BeTrue())
		Expect(c.Get()).To(Equal("10"))
	})

	It("compares snowflake ids numerically", func() {
		var c bot.Cursor
		c.Advance("1790000000000000000")
		Expect(c.Advance("999999999999999999")).To(BeFalse())
		Expect(c.Advance("1790000000000000001")).To(BeTrue())
	})

	It("ignores empty ids", func() {
		var c bot.Cursor
		c.Advance("7")
		Expect(c.Advance("")).To(BeFalse())
		Expect(c.Get()).To(Equal("7"))
	})
})
