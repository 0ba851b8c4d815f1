package backend

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	ascendry "github.com/ABT-Tech-Limited/vault-plugin-secrets-ascendry/sdk"
)

func pathVendors(b *AscendryBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "vendors/" + framework.GenericNameRegex("address"),
			Fields: map[string]*framework.FieldSchema{
				"address": {
					Type:        framework.TypeString,
					Description: "Vendor address",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathVendorRead,
					Summary:  "Read a vendor profile",
				},
			},
			HelpSynopsis:    "Read a vendor profile",
			HelpDescription: "Returns the public profile of a marketplace vendor.",
		},
		{
			Pattern: "vendors/" + framework.GenericNameRegex("address") + "/listings",
			Fields: map[string]*framework.FieldSchema{
				"address": {
					Type:        framework.TypeString,
					Description: "Vendor address",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathVendorListings,
					Summary:  "List the listings of a vendor",
				},
			},
			HelpSynopsis:    "List the listings of a vendor",
			HelpDescription: "Returns every marketplace listing created by the vendor.",
		},
		{
			Pattern: "listings/" + framework.GenericNameRegex("listing_id"),
			Fields: map[string]*framework.FieldSchema{
				"listing_id": {
					Type:        framework.TypeString,
					Description: "Listing identifier",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathListingRead,
					Summary:  "Read a marketplace listing",
				},
			},
			HelpSynopsis:    "Read a marketplace listing",
			HelpDescription: "Returns a single marketplace listing by ID.",
		},
		{
			Pattern: "listings/" + framework.GenericNameRegex("listing_id") + "/cancel",
			Fields: map[string]*framework.FieldSchema{
				"listing_id": {
					Type:        framework.TypeString,
					Description: "Listing identifier",
					Required:    true,
				},
				"vendor_address": {
					Type:        framework.TypeString,
					Description: "Optional vendor address that owns the listing",
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathListingCancel,
					Summary:  "Cancel a marketplace listing",
				},
			},
			HelpSynopsis:    "Cancel a marketplace listing",
			HelpDescription: "Cancels an active listing. The remote service rejects unknown or foreign listings.",
		},
	}
}

// pathVendorRead handles GET /vendors/:address
func (b *AscendryBackend) pathVendorRead(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	address := d.Get("address").(string)
	if err := ValidateAddress("address", address); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	vendor, err := client.GetVendorInfo(ctx, address)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"vendor_address": vendor.VendorAddress,
			"name":           vendor.Name,
			"description":    vendor.Description,
			"logo_file_key":  vendor.LogoFileKey,
			"website":        vendor.Website,
			"verified":       vendor.Verified,
		},
	}, nil
}

// pathVendorListings handles GET /vendors/:address/listings
func (b *AscendryBackend) pathVendorListings(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	address := d.Get("address").(string)
	if err := ValidateAddress("address", address); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GetVendorListings(ctx, address)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"listings": result.Listings,
		},
	}, nil
}

// pathListingRead handles GET /listings/:listing_id
func (b *AscendryBackend) pathListingRead(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	listingID := d.Get("listing_id").(string)
	if err := ValidateID("listing_id", listingID); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.GetVendorListingById(ctx, listingID)
	if err != nil {
		return callResponse(err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"listing": result.Listing,
		},
	}, nil
}

// pathListingCancel handles POST /listings/:listing_id/cancel
func (b *AscendryBackend) pathListingCancel(
	ctx context.Context,
	req *logical.Request,
	d *framework.FieldData,
) (*logical.Response, error) {
	listingID := d.Get("listing_id").(string)
	vendor := d.Get("vendor_address").(string)
	if err := ValidateID("listing_id", listingID); err != nil {
		return logical.ErrorResponse(err.Error()), nil
	}
	if vendor != "" {
		if err := ValidateAddress("vendor_address", vendor); err != nil {
			return logical.ErrorResponse(err.Error()), nil
		}
	}

	client, err := b.getClient(ctx, req.Storage)
	if err != nil {
		return callResponse(err)
	}
	result, err := client.CancelVendorListing(ctx, &ascendry.CancelVendorListingRequest{
		ListingID:     listingID,
		VendorAddress: vendor,
	})
	if err != nil {
		return callResponse(err)
	}

	b.Logger().Info("listing cancelled", "listing_id", listingID, "success", result.Success)

	return &logical.Response{
		Data: map[string]interface{}{
			"success": result.Success,
			"message": result.Message,
		},
	}, nil
}
