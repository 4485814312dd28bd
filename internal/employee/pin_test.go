package employee_test

import (
	"context"
	"errors"
	"strconv"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PinAllocator", func() {
	var (
		repo *mockRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		repo = newMockRepository()
		ctx = context.Background()
	})

	It("draws six digit pins inside the range", func() {
		allocator := employee.NewPinAllocator(repo, 0)
		for i := 0; i < 200; i++ {
			pin, err := allocator.Allocate(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pin).To(MatchRegexp(`^[0-9]{6}$`))

			n, _ := strconv.Atoi(pin)
			Expect(n).To(BeNumerically(">=", employee.PinMin))
			Expect(n).To(BeNumerically("<=", employee.PinMax))
		}
	})

	It("skips pins that already exist, one lookup per attempt", func() {
		// Given the first three draws collide
		repo.reserved["100000"] = true
		repo.reserved["100001"] = true
		repo.reserved["100002"] = true
		allocator := employee.NewPinAllocator(repo, 20,
			employee.WithDraw(sequence(100000, 100001, 100002, 123456)))

		// When
		pin, err := allocator.Allocate(ctx)

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(pin).To(Equal("123456"))
		Expect(repo.pinChecks).To(Equal(4))
	})

	It("gives up after the attempt bound", func() {
		repo.reserved["555555"] = true
		allocator := employee.NewPinAllocator(repo, 5, employee.WithDraw(sequence(555555)))

		_, err := allocator.Allocate(ctx)
		Expect(errors.Is(err, internal.ErrPinAllocationExhausted)).To(BeTrue())
		Expect(repo.pinChecks).To(Equal(5))
	})

	It("stops when the context is done", func() {
		allocator := employee.NewPinAllocator(repo, 5)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := allocator.Allocate(cancelled)
		Expect(err).To(MatchError(context.Canceled))
		Expect(repo.pinChecks).To(BeZero())
	})

	It("propagates lookup failures", func() {
		repo.err = errors.New("connection reset")
		allocator := employee.NewPinAllocator(repo, 5)

		_, err := allocator.Allocate(ctx)
		Expect(err).To(MatchError("connection reset"))
	})
})
