package worktime_test

import (
	"time"

	"github.com/frahmantamala/calong-tick/internal/worktime"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

var _ = Describe("Bucket", func() {
	DescribeTable("year boundary weeks",
		func(t time.Time, date string, week, month, year int) {
			b := worktime.Bucket(t, time.UTC)
			Expect(b.Date).To(Equal(date))
			Expect(b.Week).To(Equal(week))
			Expect(b.Month).To(Equal(month))
			Expect(b.Year).To(Equal(year))
		},
		Entry("Sunday Dec 31 2023 closes week 52", at(2023, time.December, 31, 12, 0), "2023-12-31", 52, 12, 2023),
		Entry("Monday Jan 1 2024 opens week 1", at(2024, time.January, 1, 8, 0), "2024-01-01", 1, 1, 2024),
		Entry("Monday Dec 30 2024 is week 1 but keeps its calendar year", at(2024, time.December, 30, 9, 0), "2024-12-30", 1, 12, 2024),
		Entry("Friday Jan 1 2021 falls in week 53 of the prior ISO year", at(2021, time.January, 1, 9, 0), "2021-01-01", 53, 1, 2021),
		Entry("Thursday Dec 31 2020 is week 53", at(2020, time.December, 31, 23, 59), "2020-12-31", 53, 12, 2020),
		Entry("Sunday Jan 1 2023 belongs to week 52", at(2023, time.January, 1, 10, 0), "2023-01-01", 52, 1, 2023),
		Entry("a mid year date", at(2024, time.March, 5, 9, 0), "2024-03-05", 10, 3, 2024),
	)

	It("buckets in the configured zone", func() {
		ny, err := time.LoadLocation("America/New_York")
		Expect(err).NotTo(HaveOccurred())

		b := worktime.Bucket(at(2024, time.January, 1, 2, 0), ny)
		Expect(b.Date).To(Equal("2023-12-31"))
		Expect(b.Week).To(Equal(52))
		Expect(b.Month).To(Equal(12))
		Expect(b.Year).To(Equal(2023))
	})

	It("is idempotent", func() {
		t := at(2024, time.June, 14, 18, 45)
		Expect(worktime.Bucket(t, time.UTC)).To(Equal(worktime.Bucket(t, time.UTC)))
	})

	It("resolves the current period from now", func() {
		p := worktime.CurrentPeriod(at(2024, time.December, 30, 9, 0), time.UTC)
		Expect(p).To(Equal(worktime.Period{Week: 1, Month: 12, Year: 2024}))
	})
})

var _ = Describe("Derive", func() {
	It("leaves the duration empty for an open entry", func() {
		d := worktime.Derive(at(2024, time.January, 1, 9, 0), nil, 0, time.UTC)
		Expect(d.Duration).To(BeNil())
		Expect(d.Bucket.Date).To(Equal("2024-01-01"))
	})

	It("computes bucket and duration together for a closed entry", func() {
		out := at(2024, time.January, 1, 17, 30)
		d := worktime.Derive(at(2024, time.January, 1, 9, 0), &out, 30, time.UTC)
		Expect(d.Duration).NotTo(BeNil())
		Expect(d.Duration.TotalMinutes).To(Equal(480))
		Expect(d.Bucket.Week).To(Equal(1))
	})
})
