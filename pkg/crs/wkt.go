package crs

import "fmt"

// geogcs fragments for the two supported datums, as written by common GIS
// tools into .prj sidecars.
var geogcsFragments = map[Datum]string{
	DatumGDA1994: `GEOGCS["GDA94",DATUM["Geocentric_Datum_of_Australia_1994",SPHEROID["GRS 1980",6378137,298.257222101]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`,
	DatumGDA2020: `GEOGCS["GDA2020",DATUM["Geocentric_Datum_of_Australia_2020",SPHEROID["GRS 1980",6378137,298.257222101]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`,
}

var geogcsNames = map[Datum]string{
	DatumGDA1994: "GDA94",
	DatumGDA2020: "GDA2020",
}

// WKT returns the well-known text for a catalog identifier, for writing a
// .prj sidecar. The boolean reports whether the identifier is supported.
func WKT(id int) (string, bool) {
	datum, proj, zone, ok := ResolveZone(id)
	if !ok {
		return "", false
	}

	if proj == ProjectionGeographic {
		frag := geogcsFragments[datum]
		// Append the authority to the outer GEOGCS node.
		return fmt.Sprintf(`%s,AUTHORITY["EPSG","%d"]]`, frag[:len(frag)-1], id), true
	}

	// Transverse Mercator parameters for MGA: central meridian steps 6
	// degrees per zone, anchored so zone 55 sits on 147E.
	centralMeridian := zone*6 - 183
	return fmt.Sprintf(
		`PROJCS["%s / MGA zone %d",%s,PROJECTION["Transverse_Mercator"],PARAMETER["latitude_of_origin",0],PARAMETER["central_meridian",%d],PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],PARAMETER["false_northing",10000000],UNIT["metre",1],AUTHORITY["EPSG","%d"]]`,
		geogcsNames[datum], zone, geogcsFragments[datum], centralMeridian, id,
	), true
}
