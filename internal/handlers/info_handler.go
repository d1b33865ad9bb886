package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

// defaultFooterText is served when the info_footer table has no row yet.
const defaultFooterText = "This page is not a replacement for professional therapy. " +
	"If you are in crisis, please reach out to one of the emergency resources listed above."

type InfoHdl interface {
	GetEmergencyResources(c *gin.Context)
	GetProfessionalLinks(c *gin.Context)
	GetInformationLinks(c *gin.Context)
	GetFooter(c *gin.Context)
}

type InfoHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewInfoHandler(databaseManager managers.DatabaseMgr) InfoHdl {
	return &InfoHandler{DatabaseManager: databaseManager}
}

// GetEmergencyResources returns the static crisis resources. The route is
// public so the list stays reachable without an account.
func (handler *InfoHandler) GetEmergencyResources(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	queryString := "SELECT resource_id, resource_name, description, phone_number, website FROM emergency_resources ORDER BY resource_id"
	rows, err := tx.Query(transactionCtx, queryString)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	resources := make([]schemas.EmergencyResource, 0)
	for rows.Next() {
		resource := schemas.EmergencyResource{}
		if err = rows.Scan(&resource.ResourceId, &resource.ResourceName, &resource.Description,
			&resource.PhoneNumber, &resource.Website); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		resources = append(resources, resource)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, resources, http.StatusOK)
}

// GetProfessionalLinks returns the links to professional help.
func (handler *InfoHandler) GetProfessionalLinks(c *gin.Context) {
	handler.listLinks(c, "professional")
}

// GetInformationLinks returns the informational reading links.
func (handler *InfoHandler) GetInformationLinks(c *gin.Context) {
	handler.listLinks(c, "information")
}

func (handler *InfoHandler) listLinks(c *gin.Context, linkType string) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	queryString := "SELECT link_id, link_type, link_name, url, description FROM links WHERE link_type = $1 ORDER BY link_id"
	rows, err := tx.Query(transactionCtx, queryString, linkType)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	links := make([]schemas.Link, 0)
	for rows.Next() {
		link := schemas.Link{}
		if err = rows.Scan(&link.LinkId, &link.LinkType, &link.LinkName, &link.Url, &link.Description); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, links, http.StatusOK)
}

// GetFooter returns the informational footer, falling back to the default
// disclaimer when none is stored.
func (handler *InfoHandler) GetFooter(c *gin.Context) {
	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	footer := schemas.FooterText{}
	queryString := "SELECT footer_id, footer_text FROM info_footer ORDER BY footer_id LIMIT 1"
	err = tx.QueryRow(transactionCtx, queryString).Scan(&footer.FooterId, &footer.FooterText)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		err = nil
		footer = schemas.FooterText{FooterText: defaultFooterText}
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &footer, http.StatusOK)
}
