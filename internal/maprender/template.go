package maprender

import "html/template"

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Parcel Map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.fullscreen@3.0.2/Control.FullScreen.css">
<style>
  html, body, #map { height: 100%; margin: 0; }
  .parcel-popup h4 { margin: 0.4em 0 0.2em; }
</style>
</head>
<body>
<div id="map"></div>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.fullscreen@3.0.2/Control.FullScreen.js"></script>
<script>
  var map = L.map('map', {
    center: {{.Center}},
    zoom: {{.Zoom}},
    fullscreenControl: true
  });

  var base = L.tileLayer({{.TileURL}}, {
    attribution: {{.Attribution}},
    maxZoom: 20
  }).addTo(map);

  var imagery = L.tileLayer(
    'https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}',
    { attribution: 'Tiles &copy; Esri', maxZoom: 20 }
  );

  var parcels = L.layerGroup().addTo(map);
  var polygons = {{.Polygons}};
  var popup = {{.Popup}};

  polygons.forEach(function (rings, i) {
    var layer = L.polygon(rings, {
      color: {{.LineColor}},
      fillColor: {{.FillColor}},
      fillOpacity: {{.FillOpacity}},
      weight: 2
    }).addTo(parcels);
    if (i === 0) {
      layer.bindPopup(popup);
    }
  });

  L.marker({{.Center}}).addTo(map).bindPopup(popup).openPopup();

  L.control.layers(
    { 'Street': base, 'Imagery': imagery },
    { 'Parcels': parcels }
  ).addTo(map);
</script>
</body>
</html>
`))
