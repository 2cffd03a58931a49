package handler

import (
	"log"
	"net/http"
	"strconv"

	"ap-invoice-backend/internal/models"
	"ap-invoice-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler serves the vendor and purchase-order maintenance forms.
type AdminHandler struct {
	vendorRepo *repository.VendorRepository
	poRepo     *repository.PurchaseOrderRepository
}

func NewAdminHandler(vendorRepo *repository.VendorRepository, poRepo *repository.PurchaseOrderRepository) *AdminHandler {
	return &AdminHandler{vendorRepo: vendorRepo, poRepo: poRepo}
}

func (h *AdminHandler) CreateVendor(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	vendor := &models.Vendor{Name: name, Email: c.PostForm("email")}
	if err := h.vendorRepo.Create(vendor); err != nil {
		log.Println("vendor create failed:", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AdminHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendorRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func (h *AdminHandler) CreatePO(c *gin.Context) {
	poNumber := c.PostForm("po_number")
	vendorID, err := uuid.Parse(c.PostForm("vendor_id"))
	if err != nil {
		log.Println("po create with bad vendor id, ignoring:", c.PostForm("vendor_id"))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil {
		log.Println("po create with bad amount, ignoring:", c.PostForm("amount"))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if _, err := h.vendorRepo.GetByID(vendorID); err != nil {
		log.Println("po create for unknown vendor, ignoring:", vendorID)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	po := &models.PurchaseOrder{
		PONumber: poNumber,
		VendorID: vendorID,
		Amount:   amount,
	}
	if err := h.poRepo.Create(po); err != nil {
		log.Println("po create failed:", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AdminHandler) ListPOs(c *gin.Context) {
	pos, err := h.poRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pos)
}
