package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/c-victorino/dishcord-web-app/internal/middleware"
	"github.com/c-victorino/dishcord-web-app/internal/service"
	"github.com/c-victorino/dishcord-web-app/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler lets a user download their own posts as CSV or XLSX.
type ExportHandler struct {
	Content *service.ContentService
}

func NewExportHandler(content *service.ContentService) *ExportHandler {
	return &ExportHandler{Content: content}
}

var exportColumns = []string{"ID", "Title", "Category", "Published", "PostDate", "Updated", "LastUpdate"}

// ownPosts returns only the posts the caller owns.
func (h *ExportHandler) ownPosts(c *gin.Context) ([]service.PostView, error) {
	user, _ := middleware.CurrentUser(c)
	all, err := h.Content.ListAllPosts(c.Request.Context(), user.ID.Hex())
	if err != nil {
		return nil, err
	}
	own := make([]service.PostView, 0, len(all))
	for _, p := range all {
		if p.IsOwnedByViewer {
			own = append(own, p)
		}
	}
	return own, nil
}

func exportRow(p service.PostView) []string {
	category := ""
	if p.Category != nil {
		category = *p.Category
	}
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Title,
		category,
		strconv.FormatBool(p.Published),
		util.FormatDate(p.PostDate),
		strconv.FormatBool(p.IsUpdated),
		util.FormatDate(p.UpdatedAt),
	}
}

// CSV streams the caller's posts as a CSV attachment.
func (h *ExportHandler) CSV(c *gin.Context) {
	posts, err := h.ownPosts(c)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to export posts")
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(exportColumns)
	for _, p := range posts {
		_ = w.Write(exportRow(p))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to export posts")
		return
	}

	filename := fmt.Sprintf("posts-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// XLSX streams the caller's posts as a spreadsheet attachment.
func (h *ExportHandler) XLSX(c *gin.Context) {
	posts, err := h.ownPosts(c)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to export posts")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Posts"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
	}
	for r, p := range posts {
		for i, val := range exportRow(p) {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "unable to export posts")
		return
	}

	filename := fmt.Sprintf("posts-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
