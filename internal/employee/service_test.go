package employee_test

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/core/events"
	"github.com/frahmantamala/calong-tick/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

var _ = Describe("Employee Service", func() {
	var (
		repo      *mockRepository
		publisher *recordingPublisher
		service   *employee.Service
		logger    *slog.Logger
		ctx       context.Context
	)

	newService := func(opts ...employee.PinOption) *employee.Service {
		return employee.NewService(repo, employee.NewPinAllocator(repo, 20, opts...), publisher, logger)
	}

	BeforeEach(func() {
		repo = newMockRepository()
		publisher = &recordingPublisher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx = context.Background()
		service = newService()
	})

	Describe("Create", func() {
		It("applies defaults and allocates a pin", func() {
			// Given
			dto := employee.CreateEmployeeDTO{Name: "  Siti Rahma ", EmployeeType: employee.TypePartTime}

			// When
			emp, err := service.Create(ctx, 1, dto)

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.ID).To(BeNumerically(">", 0))
			Expect(emp.Name).To(Equal("Siti Rahma"))
			Expect(emp.Role).To(Equal(employee.RoleWaiter))
			Expect(emp.HourlyRate.StringFixed(2)).To(Equal("0.00"))
			Expect(emp.IsActive).To(BeTrue())
			Expect(emp.Pin).To(MatchRegexp(`^[0-9]{6}$`))
			Expect(*emp.CreatedBy).To(Equal(int64(1)))
		})

		It("keeps the supplied role and rate", func() {
			rate := decimal.RequireFromString("15.25")
			emp, err := service.Create(ctx, 1, employee.CreateEmployeeDTO{
				Name:         "Budi",
				EmployeeType: employee.TypeFullTime,
				Role:         employee.RoleBartender,
				HourlyRate:   &rate,
				Email:        strPtr("budi@calong.test"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(emp.Role).To(Equal(employee.RoleBartender))
			Expect(emp.ToResponse().HourlyRate).To(Equal("15.25"))
			Expect(*emp.Email).To(Equal("budi@calong.test"))
		})

		It("publishes employee.created", func() {
			emp, err := service.Create(ctx, 9, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.events).To(HaveLen(1))
			created, ok := publisher.events[0].(*events.EmployeeCreatedEvent)
			Expect(ok).To(BeTrue())
			Expect(created.EmployeeID).To(Equal(emp.ID))
			Expect(created.CreatedBy).To(Equal(int64(9)))
		})

		DescribeTable("rejects invalid input",
			func(dto employee.CreateEmployeeDTO, field string) {
				_, err := service.Create(ctx, 1, dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
				details, ok := appErr.Details.(internal.ValidationErrors)
				Expect(ok).To(BeTrue())
				Expect(details.Errors[0].Field).To(Equal(field))
			},
			Entry("missing name", employee.CreateEmployeeDTO{EmployeeType: employee.TypePartTime}, "name"),
			Entry("missing type", employee.CreateEmployeeDTO{Name: "Ana"}, "employee_type"),
			Entry("unknown type", employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: "seasonal"}, "employee_type"),
			Entry("unknown role", employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime, Role: "juggler"}, "role"),
			Entry("negative rate", func() employee.CreateEmployeeDTO {
				rate := decimal.NewFromInt(-1)
				return employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime, HourlyRate: &rate}
			}(), "hourly_rate"),
		)

		It("retries allocation when the pin is taken between check and insert", func() {
			repo.raceOnCreate["222222"] = true
			service = newService(employee.WithDraw(sequence(222222, 333333)))

			emp, err := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})

			Expect(err).NotTo(HaveOccurred())
			Expect(emp.Pin).To(Equal("333333"))
		})

		It("fails with exhaustion when every draw collides", func() {
			repo.reserved["444444"] = true
			service = newService(employee.WithDraw(sequence(444444)))

			_, err := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})
			Expect(errors.Is(err, internal.ErrPinAllocationExhausted)).To(BeTrue())
			Expect(repo.employees).To(BeEmpty())
		})

		It("never hands out a duplicate pin under adversarial collisions", func() {
			// Given a draw source confined to 40 values whose first K draws are
			// all reserved
			const n = 30
			for pin := 100000; pin < 100005; pin++ {
				repo.reserved[itoa(pin)] = true
			}
			r := rand.New(rand.NewSource(7))
			first := []int{100000, 100001, 100002, 100003, 100004}
			calls := 0
			draw := func() (int, error) {
				calls++
				if calls <= len(first) {
					return first[calls-1], nil
				}
				return 100000 + r.Intn(40), nil
			}
			service = employee.NewService(repo, employee.NewPinAllocator(repo, 10000, employee.WithDraw(draw)), publisher, logger)

			// When
			seen := make(map[string]bool)
			for i := 0; i < n; i++ {
				emp, err := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Staff", EmployeeType: employee.TypePartTime})
				Expect(err).NotTo(HaveOccurred())

				// Then
				Expect(seen).NotTo(HaveKey(emp.Pin))
				Expect(repo.reserved).NotTo(HaveKey(emp.Pin))
				seen[emp.Pin] = true
			}
			Expect(seen).To(HaveLen(n))
		})

		It("wraps storage failures", func() {
			repo.err = errors.New("db down")
			_, err := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("Get and List", func() {
		It("returns not found for a missing employee", func() {
			_, err := service.Get(ctx, 404)
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})

		It("lists newest first, including inactive employees", func() {
			a, _ := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "A", EmployeeType: employee.TypePartTime})
			b, _ := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "B", EmployeeType: employee.TypePartTime})
			inactive := false
			_, err := service.Update(ctx, a.ID, employee.UpdateEmployeeDTO{IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())

			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].ID).To(Equal(b.ID))
			Expect(list[1].IsActive).To(BeFalse())
		})
	})

	Describe("Update", func() {
		var existing *employee.Employee

		BeforeEach(func() {
			var err error
			existing, err = service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})
			Expect(err).NotTo(HaveOccurred())
		})

		It("changes only supplied fields", func() {
			rate := decimal.RequireFromString("20")
			updated, err := service.Update(ctx, existing.ID, employee.UpdateEmployeeDTO{
				Role:       strPtr(employee.RoleCashier),
				HourlyRate: &rate,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Ana"))
			Expect(updated.Role).To(Equal(employee.RoleCashier))
			Expect(updated.ToResponse().HourlyRate).To(Equal("20.00"))
			Expect(updated.Pin).To(Equal(existing.Pin))
		})

		It("accepts a free pin", func() {
			updated, err := service.Update(ctx, existing.ID, employee.UpdateEmployeeDTO{Pin: strPtr("654321")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Pin).To(Equal("654321"))
		})

		It("accepts the employee's own pin", func() {
			_, err := service.Update(ctx, existing.ID, employee.UpdateEmployeeDTO{Pin: strPtr(existing.Pin)})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a pin held by someone else", func() {
			other, err := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Budi", EmployeeType: employee.TypePartTime})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(ctx, existing.ID, employee.UpdateEmployeeDTO{Pin: strPtr(other.Pin)})
			Expect(errors.Is(err, internal.ErrPinInUse)).To(BeTrue())
		})

		It("rejects a malformed pin", func() {
			_, err := service.Update(ctx, existing.ID, employee.UpdateEmployeeDTO{Pin: strPtr("12ab")})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects a blank name", func() {
			_, err := service.Update(ctx, existing.ID, employee.UpdateEmployeeDTO{Name: strPtr("   ")})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("returns not found for a missing employee", func() {
			_, err := service.Update(ctx, 999, employee.UpdateEmployeeDTO{Name: strPtr("X")})
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("deletes an existing employee", func() {
			emp, _ := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})
			Expect(service.Delete(ctx, emp.ID)).To(Succeed())

			_, err := service.Get(ctx, emp.ID)
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})

		It("returns not found when nothing was deleted", func() {
			err := service.Delete(ctx, 77)
			Expect(errors.Is(err, internal.ErrEmployeeNotFound)).To(BeTrue())
		})
	})

	Describe("VerifyPIN", func() {
		It("resolves an active employee", func() {
			emp, _ := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})

			found, err := service.VerifyPIN(ctx, " "+emp.Pin+" ")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(emp.ID))
		})

		It("treats an inactive employee like an unknown pin", func() {
			emp, _ := service.Create(ctx, 1, employee.CreateEmployeeDTO{Name: "Ana", EmployeeType: employee.TypePartTime})
			inactive := false
			_, err := service.Update(ctx, emp.ID, employee.UpdateEmployeeDTO{IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.VerifyPIN(ctx, emp.Pin)
			Expect(errors.Is(err, internal.ErrInvalidPin)).To(BeTrue())

			_, err = service.VerifyPIN(ctx, "000000")
			Expect(errors.Is(err, internal.ErrInvalidPin)).To(BeTrue())
		})

		It("requires a pin", func() {
			_, err := service.VerifyPIN(ctx, "")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})
})
