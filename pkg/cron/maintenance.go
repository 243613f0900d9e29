package cron

import (
	"log"
	"net"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"clientmint_backend/internal/middleware"
	"clientmint_backend/internal/model"
	"clientmint_backend/internal/usage"
	"clientmint_backend/pkg/database"
)

// InitMaintenanceCron schedules the background jobs: hourly rate-limit
// window pruning, daily custom-domain verification and a daily usage rollup
// log line for spend visibility.
func InitMaintenanceCron(publicHost string) {
	c := cron.New()

	if _, err := c.AddFunc("@every 1h", func() {
		middleware.Limiter().Prune(2 * time.Hour)
	}); err != nil {
		log.Printf("Could not schedule rate-limit pruning: %v", err)
	}

	if _, err := c.AddFunc("0 8 * * *", func() {
		verifyPendingDomains(publicHost)
	}); err != nil {
		log.Printf("Could not schedule domain verification: %v", err)
	}

	if _, err := c.AddFunc("0 9 * * *", logUsageRollup); err != nil {
		log.Printf("Could not schedule usage rollup: %v", err)
	}

	c.Start()
}

// verifyPendingDomains checks whether pending custom domains point at us yet
// and promotes them to verified. DNS propagation takes a while, so pending
// rows are simply retried on the next run.
func verifyPendingDomains(publicHost string) {
	var sites []model.Site
	err := database.GetDB().
		Where("custom_domain <> '' AND domain_status = ?", model.DomainStatusPending).
		Find(&sites).Error
	if err != nil {
		log.Printf("Error fetching pending domains: %v", err)
		return
	}

	for _, site := range sites {
		if !domainPointsAt(site.CustomDomain, publicHost) {
			continue
		}
		err := database.GetDB().Model(&site).
			Update("domain_status", model.DomainStatusVerified).Error
		if err != nil {
			log.Printf("Error verifying domain %s: %v", site.CustomDomain, err)
			continue
		}
		log.Printf("Custom domain %s verified for site %d", site.CustomDomain, site.ID)
	}
}

func domainPointsAt(domain, publicHost string) bool {
	if cname, err := net.LookupCNAME(domain); err == nil {
		if strings.EqualFold(strings.TrimSuffix(cname, "."), publicHost) {
			return true
		}
	}

	hostAddrs, err := net.LookupHost(publicHost)
	if err != nil {
		return false
	}
	domainAddrs, err := net.LookupHost(domain)
	if err != nil {
		return false
	}
	for _, d := range domainAddrs {
		for _, h := range hostAddrs {
			if d == h {
				return true
			}
		}
	}
	return false
}

// logUsageRollup emits the month-to-date billable action counts. This is the
// operational safety net against runaway token spend.
func logUsageRollup() {
	since := usage.MonthStart(time.Now())

	type rollup struct {
		EditType string
		Count    int64
	}
	var rows []rollup
	err := database.GetDB().Model(&model.UsageLog{}).
		Select("edit_type, count(*) as count").
		Where("created_at >= ?", since).
		Group("edit_type").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error computing usage rollup: %v", err)
		return
	}

	for _, row := range rows {
		log.Printf("Usage this month: %s = %d", row.EditType, row.Count)
	}
}
